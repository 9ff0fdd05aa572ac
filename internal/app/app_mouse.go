package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tokenlens/internal/ui"
)

// wheelRows is how many rows one wheel notch scrolls the token view.
const wheelRows = 3

// inTokensPanel reports whether a screen position falls on the token view.
func (m *Model) inTokensPanel(x, y int) bool {
	ctx := ui.GetViewContext()
	top := ctx.HeaderHeight + ctx.EditorHeight
	return y >= top && y < top+ctx.TokensHeight && x < ctx.TokensWidth
}

// inEditorPanel reports whether a screen position falls on the editor.
func (m *Model) inEditorPanel(y int) bool {
	ctx := ui.GetViewContext()
	return y >= ctx.HeaderHeight && y < ctx.HeaderHeight+ctx.EditorHeight
}

// handleMouseWheel scrolls whichever panel is under the pointer.
func (m *Model) handleMouseWheel(msg tea.MouseWheelMsg) tea.Cmd {
	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return cmd
	}

	mouse := msg.Mouse()
	if m.inTokensPanel(mouse.X, mouse.Y) {
		switch mouse.Button {
		case tea.MouseWheelUp:
			m.tokens.ScrollRows(-wheelRows)
		case tea.MouseWheelDown:
			m.tokens.ScrollRows(wheelRows)
		}
		return nil
	}

	if m.inEditorPanel(mouse.Y) {
		editor, cmd := m.editor.Update(msg)
		m.editor = editor
		return cmd
	}
	return nil
}

// tokensBodyPos converts a screen position to token body coordinates: past
// the panel border and title.
func (m *Model) tokensBodyPos(x, y int) (col, line int) {
	ctx := ui.GetViewContext()
	border := ui.BorderSize / 2
	top := ctx.HeaderHeight + ctx.EditorHeight + border + ui.TitleHeight
	return x - border, y - top
}

// handleMouseClick focuses the clicked panel. A left click in the token body
// starts a selection, and a double click copies the token under it.
func (m *Model) handleMouseClick(msg tea.MouseClickMsg) tea.Cmd {
	if m.modal.IsVisible() {
		return nil
	}

	mouse := msg.Mouse()
	switch {
	case m.inTokensPanel(mouse.X, mouse.Y):
		m.setFocus(FocusTokens)
		if mouse.Button != tea.MouseLeft {
			return nil
		}
		col, line := m.tokensBodyPos(mouse.X, mouse.Y)
		if m.tokens.HandleClick(col, line) {
			return m.copySelection(false)
		}
	case m.inEditorPanel(mouse.Y):
		m.tokens.ClearSelection()
		m.setFocus(FocusEditor)
		editor, cmd := m.editor.Update(msg)
		m.editor = editor
		return cmd
	}
	return nil
}

// handleMouseMotion extends a selection being dragged in the token view.
// Motion may leave the panel; the selection snaps to the nearest token.
func (m *Model) handleMouseMotion(msg tea.MouseMotionMsg) tea.Cmd {
	if m.modal.IsVisible() || !m.tokens.Selecting() {
		return nil
	}
	mouse := msg.Mouse()
	m.tokens.ExtendSelection(m.tokensBodyPos(mouse.X, mouse.Y))
	return nil
}

// handleMouseRelease ends a drag and copies the selected token ids.
func (m *Model) handleMouseRelease(msg tea.MouseReleaseMsg) tea.Cmd {
	if m.modal.IsVisible() || !m.tokens.Selecting() {
		return nil
	}
	mouse := msg.Mouse()
	m.tokens.ExtendSelection(m.tokensBodyPos(mouse.X, mouse.Y))
	if !m.tokens.StopSelection() {
		return nil
	}
	return m.copySelection(false)
}
