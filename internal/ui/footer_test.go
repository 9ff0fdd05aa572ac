package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

func TestNewFooter(t *testing.T) {
	footer := NewFooter()

	if len(footer.bindings) == 0 {
		t.Error("Expected default bindings to be set")
	}

	if footer.flashMessage != nil {
		t.Error("Expected no flash message initially")
	}
}

func TestFooter_SetFlash(t *testing.T) {
	footer := NewFooter()

	footer.SetFlash("Test error message", FlashError)

	if footer.flashMessage == nil {
		t.Fatal("Expected flash message to be set")
	}
	if footer.flashMessage.Text != "Test error message" {
		t.Errorf("Expected text 'Test error message', got %q", footer.flashMessage.Text)
	}
	if footer.flashMessage.Type != FlashError {
		t.Errorf("Expected type FlashError, got %v", footer.flashMessage.Type)
	}
	if footer.flashMessage.Duration != DefaultFlashDuration {
		t.Errorf("Expected duration %v, got %v", DefaultFlashDuration, footer.flashMessage.Duration)
	}
}

func TestFooter_SetFlashWithDuration(t *testing.T) {
	footer := NewFooter()

	footer.SetFlashWithDuration("Custom duration", FlashInfo, 10*time.Second)

	if footer.flashMessage.Duration != 10*time.Second {
		t.Errorf("Expected duration 10s, got %v", footer.flashMessage.Duration)
	}
}

func TestFooter_ClearFlash(t *testing.T) {
	footer := NewFooter()

	footer.SetFlash("Test message", FlashInfo)
	if !footer.HasFlash() {
		t.Error("Expected HasFlash() to return true")
	}

	footer.ClearFlash()
	if footer.HasFlash() {
		t.Error("Expected HasFlash() to return false after ClearFlash()")
	}
}

func TestFlashMessage_IsExpired(t *testing.T) {
	fresh := &FlashMessage{Text: "Test", CreatedAt: time.Now(), Duration: 5 * time.Second}
	if fresh.IsExpired() {
		t.Error("New message should not be expired")
	}

	old := &FlashMessage{Text: "Test", CreatedAt: time.Now().Add(-10 * time.Second), Duration: 5 * time.Second}
	if !old.IsExpired() {
		t.Error("Old message should be expired")
	}
}

func TestFooter_ClearIfExpired(t *testing.T) {
	footer := NewFooter()

	footer.SetFlash("Not expired", FlashInfo)
	if footer.ClearIfExpired() {
		t.Error("Should not clear non-expired message")
	}

	footer.flashMessage = &FlashMessage{
		Text:      "Expired",
		Type:      FlashInfo,
		CreatedAt: time.Now().Add(-10 * time.Second),
		Duration:  5 * time.Second,
	}
	if !footer.ClearIfExpired() {
		t.Error("Should clear expired message")
	}
	if footer.HasFlash() {
		t.Error("Flash should be cleared")
	}
}

func TestFooter_View_WithFlash(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(80)

	if strings.Contains(footer.View(), "File too large") {
		t.Error("Should not contain flash text when no flash is set")
	}

	footer.SetFlash("File too large", FlashError)
	view := ansi.Strip(footer.View())

	if !strings.Contains(view, "File too large") {
		t.Error("Flash message should be visible in view")
	}
	if !strings.Contains(view, "✕") {
		t.Error("Error flash should contain error icon")
	}
	if strings.Contains(view, "quit") {
		t.Error("Flash should replace the key bindings")
	}
}

func TestFooter_FlashTypes(t *testing.T) {
	tests := []struct {
		name         string
		flashType    FlashType
		expectedIcon string
	}{
		{"Error", FlashError, "✕"},
		{"Warning", FlashWarning, "⚠"},
		{"Info", FlashInfo, "ℹ"},
		{"Success", FlashSuccess, "✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			footer := NewFooter()
			footer.SetWidth(80)
			footer.SetFlash("Test message", tt.flashType)

			if !strings.Contains(footer.View(), tt.expectedIcon) {
				t.Errorf("Expected %s flash to contain icon %q", tt.name, tt.expectedIcon)
			}
		})
	}
}

func TestFooter_ContextBindings(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(160)

	editor := ansi.Strip(footer.View())
	if !strings.Contains(editor, "ctrl+p") {
		t.Errorf("editor bindings should mention ctrl+p: %q", editor)
	}

	footer.SetContext(true, false)
	tokens := ansi.Strip(footer.View())
	if !strings.Contains(tokens, "copy ids/texts") {
		t.Errorf("token bindings should mention copying: %q", tokens)
	}

	footer.SetContext(false, true)
	failed := ansi.Strip(footer.View())
	if !strings.Contains(failed, "retry") {
		t.Errorf("render failure should offer retry: %q", failed)
	}
}

func TestFooter_TruncatesToWidth(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(30)

	for _, line := range strings.Split(footer.View(), "\n") {
		if w := ansi.StringWidth(line); w > 30 {
			t.Errorf("footer line width %d exceeds 30", w)
		}
	}
}

func TestFlashTick(t *testing.T) {
	if FlashTick() == nil {
		t.Error("FlashTick() should return a command")
	}
}
