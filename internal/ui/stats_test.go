package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/zhubert/tokenlens/internal/models"
)

func newTestStats(s Stats) string {
	p := NewStatsPanel()
	p.SetSize(StatsWidth, 30)
	p.SetStats(s)
	return p.View()
}

func TestStats_CharsPerToken(t *testing.T) {
	if got := (Stats{}).CharsPerToken(); got != 0 {
		t.Errorf("empty CharsPerToken = %v, want 0", got)
	}
	if got := (Stats{Tokens: 4, Chars: 10}).CharsPerToken(); got != 2.5 {
		t.Errorf("CharsPerToken = %v, want 2.5", got)
	}
}

func TestStatsPanel_ViewModel(t *testing.T) {
	view := newTestStats(Stats{
		Tokens:     1234,
		Chars:      5000,
		Bytes:      5000,
		Resolution: models.Resolve("gpt-4o"),
		Backend:    "tiktoken",
		Elapsed:    12 * time.Millisecond,
	})

	for _, want := range []string{"Tokens", "1,234", "o200k_base", "gpt-4o", "Context", "Input cost", "$0.0030", "12ms"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected stats view to contain %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Messages") {
		t.Error("Messages row should only show in chat mode")
	}
}

func TestStatsPanel_ViewEncodingOnly(t *testing.T) {
	view := newTestStats(Stats{Resolution: models.Resolve("p50k_base")})
	if !strings.Contains(view, "p50k_base") {
		t.Error("expected encoding in view")
	}
	if strings.Contains(view, "Context") || strings.Contains(view, "Input cost") {
		t.Error("context and cost need a model")
	}
}

func TestStatsPanel_ChatMessages(t *testing.T) {
	view := newTestStats(Stats{ChatMode: true, Messages: 3, Resolution: models.Resolve("gpt-4o")})
	if !strings.Contains(view, "Messages") {
		t.Error("expected Messages row in chat mode")
	}
}

func TestStatsPanel_Progress(t *testing.T) {
	view := newTestStats(Stats{Loading: true, Chunk: 2, TotalChunks: 5, Percentage: 40})
	if !strings.Contains(view, "chunk 2/5") {
		t.Errorf("expected chunk progress, got:\n%s", view)
	}

	view = newTestStats(Stats{Loading: true})
	if !strings.Contains(view, "Tokenizing") {
		t.Error("expected loading status")
	}
}

func TestStatsPanel_Error(t *testing.T) {
	err := errors.New("encoder failed: vocabulary missing")
	view := newTestStats(Stats{Err: err.Error()})
	if !strings.Contains(view, "encoder failed") {
		t.Errorf("expected error in view, got:\n%s", view)
	}
}

func TestStatsPanel_Size(t *testing.T) {
	p := NewStatsPanel()
	p.SetSize(StatsWidth, 20)
	p.SetStats(Stats{Err: strings.Repeat("long error text ", 20)})
	view := p.View()

	if w := lipgloss.Width(view); w != StatsWidth {
		t.Errorf("width = %d, want %d", w, StatsWidth)
	}
	if h := lipgloss.Height(view); h != 20 {
		t.Errorf("height = %d, want 20", h)
	}
}

func TestStatsPanel_ZeroWidth(t *testing.T) {
	p := NewStatsPanel()
	if p.View() != "" {
		t.Error("expected empty view before sizing")
	}
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		usd  float64
		want string
	}{
		{0, "$0"},
		{0.00004, "$0.00004"},
		{0.5, "$0.5000"},
		{12.3456, "$12.3456"},
	}
	for _, tt := range tests {
		if got := formatCost(tt.usd); got != tt.want {
			t.Errorf("formatCost(%v) = %q, want %q", tt.usd, got, tt.want)
		}
	}
}
