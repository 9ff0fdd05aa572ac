package ui

import (
	"sync"
	"testing"
)

func TestGetViewContext_Singleton(t *testing.T) {
	ctx1 := GetViewContext()
	ctx2 := GetViewContext()

	if ctx1 != ctx2 {
		t.Error("GetViewContext should return the same instance")
	}
}

func TestViewContext_UpdateTerminalSize(t *testing.T) {
	ctx := GetViewContext()

	ctx.UpdateTerminalSize(120, 40)

	if ctx.TerminalWidth != 120 || ctx.TerminalHeight != 40 {
		t.Errorf("terminal = %dx%d, want 120x40", ctx.TerminalWidth, ctx.TerminalHeight)
	}

	expectedContent := 40 - HeaderHeight - FooterHeight
	if ctx.ContentHeight != expectedContent {
		t.Errorf("Expected ContentHeight %d, got %d", expectedContent, ctx.ContentHeight)
	}

	if ctx.EditorHeight+ctx.TokensHeight != ctx.ContentHeight {
		t.Errorf("editor %d + tokens %d != content %d", ctx.EditorHeight, ctx.TokensHeight, ctx.ContentHeight)
	}

	if ctx.StatsWidth != StatsWidth {
		t.Errorf("Expected StatsWidth %d, got %d", StatsWidth, ctx.StatsWidth)
	}

	if ctx.TokensWidth != 120-StatsWidth {
		t.Errorf("Expected TokensWidth %d, got %d", 120-StatsWidth, ctx.TokensWidth)
	}
}

func TestViewContext_NarrowHidesStats(t *testing.T) {
	ctx := GetViewContext()

	ctx.UpdateTerminalSize(StatsMinTerminalWidth-1, 30)

	if ctx.StatsWidth != 0 {
		t.Errorf("Expected stats hidden, got width %d", ctx.StatsWidth)
	}
	if ctx.TokensWidth != StatsMinTerminalWidth-1 {
		t.Errorf("Expected tokens to take the full width, got %d", ctx.TokensWidth)
	}
}

func TestViewContext_ClampsTinyTerminal(t *testing.T) {
	ctx := GetViewContext()

	ctx.UpdateTerminalSize(5, 3)

	if ctx.TerminalWidth != MinTerminalWidth || ctx.TerminalHeight != MinTerminalHeight {
		t.Errorf("terminal = %dx%d, want clamped minimum", ctx.TerminalWidth, ctx.TerminalHeight)
	}
	if ctx.EditorHeight < MinEditorHeight {
		t.Errorf("EditorHeight %d below minimum", ctx.EditorHeight)
	}
	if ctx.TokensHeight <= 0 {
		t.Errorf("TokensHeight should stay positive, got %d", ctx.TokensHeight)
	}
}

func TestViewContext_InnerSize(t *testing.T) {
	ctx := GetViewContext()

	tests := []struct {
		panel    int
		expected int
	}{
		{40, 40 - BorderSize},
		{10, 10 - BorderSize},
		{BorderSize, 0},
		{1, 0},
	}

	for _, tt := range tests {
		if got := ctx.InnerWidth(tt.panel); got != tt.expected {
			t.Errorf("InnerWidth(%d) = %d, want %d", tt.panel, got, tt.expected)
		}
		if got := ctx.InnerHeight(tt.panel); got != tt.expected {
			t.Errorf("InnerHeight(%d) = %d, want %d", tt.panel, got, tt.expected)
		}
	}
}

func TestViewContext_ConcurrentAccess(t *testing.T) {
	ctx := GetViewContext()

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ctx.UpdateTerminalSize(80+n, 24+n)
			_ = ctx.InnerWidth(40)
			_ = ctx.InnerHeight(20)
		}(i)
	}
	wg.Wait()
}
