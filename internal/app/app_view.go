package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/tokenlens/internal/ui"
)

// Panel names used for render isolation.
const (
	panelTokens = "tokens"
	panelStats  = "stats"
)

// View renders the app. This is the core Bubble Tea view function.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current view as a string.
// This is useful for testing.
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Update footer context for conditional bindings
	m.updateFooterContext()

	ctx := ui.GetViewContext()

	bottom := m.safeRender(panelTokens, m.renderTokens, ctx.TokensWidth, ctx.TokensHeight)
	if ctx.StatsWidth > 0 {
		bottom = lipgloss.JoinHorizontal(lipgloss.Top,
			bottom,
			m.safeRender(panelStats, m.stats.View, ctx.StatsWidth, ctx.TokensHeight),
		)
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		m.editor.View(),
		bottom,
		m.footer.View(),
	)

	if m.modal.IsVisible() {
		return m.modal.View(m.width, m.height)
	}
	return view
}

// safeRender renders one panel, turning a panic into an error box of the
// same size. The failure is remembered until ctrl+r so a panel that keeps
// failing is not re-run on every frame.
func (m *Model) safeRender(panel string, render func() string, width, height int) (out string) {
	if msg, failed := m.renderErrs[panel]; failed {
		return renderErrorBox(panel, msg, width, height)
	}

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			m.renderErrs[panel] = msg
			m.log.Error("panel render failed", "panel", panel, "panic", msg)
			out = renderErrorBox(panel, msg, width, height)
		}
	}()
	return render()
}

func renderErrorBox(panel, msg string, width, height int) string {
	inner := max(width-ui.BorderSize-2, 1)
	lines := []string{
		ui.StatusErrorStyle.Render(fmt.Sprintf("The %s panel failed to render.", panel)),
		"",
	}
	wrapped := lipgloss.NewStyle().Width(inner).Render(msg)
	lines = append(lines, strings.Split(wrapped, "\n")...)
	lines = append(lines, "", ui.FooterKeyStyle.Render("ctrl+r")+ui.FooterDescStyle.Render(": retry"))

	if h := height - ui.BorderSize; h > 0 && len(lines) > h {
		lines = lines[:h]
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, inner, "…")
	}
	return ui.ErrorBoxStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

// updateFooterContext updates the footer with current context for conditional bindings
func (m *Model) updateFooterContext() {
	m.footer.SetContext(m.focus == FocusTokens, len(m.renderErrs) > 0)
}

// updateSizes updates component sizes based on terminal dimensions
func (m *Model) updateSizes() {
	ctx := ui.GetViewContext()
	ctx.UpdateTerminalSize(m.width, m.height)

	m.header.SetWidth(ctx.TerminalWidth)
	m.footer.SetWidth(ctx.TerminalWidth)
	m.editor.SetSize(ctx.TerminalWidth, ctx.EditorHeight)
	m.tokens.SetSize(ctx.TokensWidth, ctx.TokensHeight)
	if ctx.StatsWidth > 0 {
		m.stats.SetSize(ctx.StatsWidth, ctx.TokensHeight)
	}
}
