package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/progress"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/zhubert/tokenlens/internal/models"
)

// Stats is what the stats panel shows for the current result.
type Stats struct {
	Tokens     int
	Chars      int
	Bytes      int
	Messages   int
	ChatMode   bool
	Resolution models.Resolution
	Backend    string
	Elapsed    time.Duration

	Loading     bool
	Chunk       int
	TotalChunks int
	Percentage  float64

	Err string
}

// CharsPerToken returns the average characters per token, or 0.
func (s Stats) CharsPerToken() float64 {
	if s.Tokens == 0 {
		return 0
	}
	return float64(s.Chars) / float64(s.Tokens)
}

// StatsPanel renders counts, context usage, cost and tokenization progress.
type StatsPanel struct {
	width  int
	height int
	stats  Stats
	bar    progress.Model
}

// NewStatsPanel creates an empty stats panel
func NewStatsPanel() *StatsPanel {
	return &StatsPanel{bar: newBar(StatsWidth - BorderSize - 2)}
}

func newBar(width int) progress.Model {
	return progress.New(progress.WithWidth(max(width, 4)), progress.WithoutPercentage())
}

// SetSize sets the panel dimensions, borders included
func (p *StatsPanel) SetSize(width, height int) {
	if width != p.width {
		p.bar = newBar(width - BorderSize - 2)
	}
	p.width = width
	p.height = height
}

// SetStats replaces the displayed stats
func (p *StatsPanel) SetStats(s Stats) {
	p.stats = s
}

// Stats returns the displayed stats
func (p *StatsPanel) Stats() Stats {
	return p.stats
}

// View renders the panel
func (p *StatsPanel) View() string {
	if p.width <= 0 {
		return ""
	}
	inner := max(p.width-BorderSize-2, 1)
	s := p.stats

	lines := []string{PanelTitleStyle.Render("Stats")}
	row := func(label, value string) {
		gap := max(inner-lipgloss.Width(label)-lipgloss.Width(value), 1)
		lines = append(lines, StatsLabelStyle.Render(label)+strings.Repeat(" ", gap)+StatsValueStyle.Render(value))
	}

	row("Tokens", humanize.Comma(int64(s.Tokens)))
	row("Characters", humanize.Comma(int64(s.Chars)))
	row("Bytes", humanize.Bytes(uint64(s.Bytes)))
	if cpt := s.CharsPerToken(); cpt > 0 {
		row("Chars/token", fmt.Sprintf("%.2f", cpt))
	} else {
		row("Chars/token", "–")
	}
	if s.ChatMode {
		row("Messages", humanize.Comma(int64(s.Messages)))
	}

	lines = append(lines, "")
	row("Encoding", s.Resolution.Encoding)
	if s.Backend != "" {
		row("Backend", s.Backend)
	}
	if m := s.Resolution.Model; m != nil {
		row("Model", m.ID)
		if m.ContextWindow > 0 {
			usage := m.ContextUsage(s.Tokens)
			row("Context", fmt.Sprintf("%.1f%% of %s", usage, humanize.Comma(int64(m.ContextWindow))))
			lines = append(lines, p.bar.ViewAs(min(usage/100, 1)))
		}
		if m.InputPrice > 0 {
			row("Input cost", formatCost(m.InputCost(s.Tokens)))
		}
	}

	lines = append(lines, "")
	switch {
	case s.Loading && s.TotalChunks > 1:
		lines = append(lines, StatusLoadingStyle.Render(
			fmt.Sprintf("Tokenizing chunk %d/%d", s.Chunk, s.TotalChunks)))
		lines = append(lines, p.bar.ViewAs(s.Percentage/100))
	case s.Loading:
		lines = append(lines, StatusLoadingStyle.Render("Tokenizing…"))
	case s.Err != "":
		wrapped := lipgloss.NewStyle().Foreground(ColorError).Width(inner).Render(s.Err)
		lines = append(lines, strings.Split(wrapped, "\n")...)
	case s.Elapsed > 0:
		row("Time", s.Elapsed.Round(time.Millisecond).String())
	}

	if innerH := p.height - BorderSize; innerH > 0 && len(lines) > innerH {
		lines = lines[:innerH]
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, inner, "…")
	}

	style := PanelStyle.Padding(0, 1)
	return style.Width(p.width).Height(p.height).Render(strings.Join(lines, "\n"))
}

// formatCost shows small amounts with enough precision to be non-zero.
func formatCost(usd float64) string {
	switch {
	case usd == 0:
		return "$0"
	case usd < 0.01:
		return fmt.Sprintf("$%.5f", usd)
	default:
		return fmt.Sprintf("$%.4f", usd)
	}
}
