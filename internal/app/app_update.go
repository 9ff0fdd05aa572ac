package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tokenlens/internal/fileinput"
	"github.com/zhubert/tokenlens/internal/keys"
	"github.com/zhubert/tokenlens/internal/ui"
	"github.com/zhubert/tokenlens/internal/ui/modals"
)

// Update handles messages. This is the core Bubble Tea update function that routes
// all messages to appropriate handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, m.scheduleRelayout()

	case resizeTickMsg:
		if msg.gen == m.resizeGen && m.tokens.Relayout() {
			m.log.Debug("relayout after resize", "width", m.width, "lines", len(m.tokens.Lines()))
		}
		return m, nil

	case ClientUpdateMsg:
		if msg.client != m.client {
			// from a client that has since been replaced
			return m, nil
		}
		return m, tea.Batch(m.applyClientState(), m.listenForClient())

	case FileChangedMsg:
		return m, m.reloadFile(msg.Path)

	case ui.FlashTickMsg:
		if m.footer.ClearIfExpired() {
			return m, nil
		}
		if m.footer.HasFlash() {
			return m, ui.FlashTick()
		}
		return m, nil

	case modals.HelpShortcutTriggeredMsg:
		return m.handleHelpShortcutTrigger(msg.Key)

	case tea.PasteMsg:
		return m.handlePaste(msg)

	case tea.MouseWheelMsg:
		return m, m.handleMouseWheel(msg)

	case tea.MouseClickMsg:
		return m, m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m, m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m, m.handleMouseRelease(msg)

	case ui.SelectionFlashTickMsg:
		m.tokens.EndSelectionFlash()
		return m, nil

	case ClipboardErrorMsg:
		m.log.Warn("system clipboard write failed", "error", msg.Err)
		return m, m.ShowFlashWarning("System clipboard unavailable, copied through the terminal only")

	case tea.KeyPressMsg:
		if result, cmd := m.handleKeyPress(msg); result != nil {
			return result, cmd
		}
		// Key not handled by handleKeyPress, let it fall through to focused panel
	}

	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}

	if m.focus == FocusEditor {
		editor, cmd := m.editor.Update(msg)
		m.editor = editor
		cmds = append(cmds, cmd)
		if _, ok := msg.(tea.KeyPressMsg); ok {
			m.retokenize()
		}
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles global keys. A nil model means the key was not
// handled and should go to the focused panel.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	if key == keys.CtrlC {
		return m, tea.Quit
	}

	if key == keys.CtrlR && len(m.renderErrs) > 0 {
		return m, m.retryRender()
	}

	if result, cmd, handled := m.ExecuteShortcut(key); handled {
		return result, cmd
	}

	if m.focus == FocusTokens {
		if m.handleTokensKey(key) {
			return m, nil
		}
	}

	return nil, nil
}

// handleTokensKey scrolls the token view. Reports whether key was used.
func (m *Model) handleTokensKey(key string) bool {
	switch key {
	case keys.Up, "k":
		m.tokens.ScrollRows(-1)
	case keys.Down, "j":
		m.tokens.ScrollRows(1)
	case keys.PgUp, "ctrl+u":
		m.tokens.PageUp()
	case keys.PgDown, "ctrl+d", keys.Space:
		m.tokens.PageDown()
	case keys.Home, "g":
		m.tokens.ScrollToTop()
	case keys.End, "G":
		m.tokens.ScrollToBottom()
	case keys.Escape:
		if !m.tokens.HasSelection() {
			return false
		}
		m.tokens.ClearSelection()
	default:
		return false
	}
	return true
}

// handlePaste loads a pasted file path, or inserts pasted text into the
// editor.
func (m *Model) handlePaste(msg tea.PasteMsg) (tea.Model, tea.Cmd) {
	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}

	if path, ok := fileinput.ParseDroppedPath(msg.Content); ok {
		m.log.Debug("paste looks like a dropped file", "path", path)
		return m, m.openFile(path)
	}

	if m.editor.HasFile() {
		return m, m.ShowFlashInfo("A file is loaded; ctrl+l clears it before typing")
	}

	if m.focus != FocusEditor {
		m.setFocus(FocusEditor)
	}
	editor, cmd := m.editor.Update(msg)
	m.editor = editor
	m.retokenize()
	return m, cmd
}

// setFocus moves focus between the editor and token view
func (m *Model) setFocus(f Focus) {
	m.focus = f
	m.editor.SetFocused(f == FocusEditor)
	m.tokens.SetFocused(f == FocusTokens)
}

// toggleFocus switches focus between the editor and token view
func (m *Model) toggleFocus() {
	if m.focus == FocusEditor {
		m.setFocus(FocusTokens)
	} else {
		m.setFocus(FocusEditor)
	}
}

// setViewMode switches the token view, saving the outgoing mode's scroll
// offset and restoring the incoming one's.
func (m *Model) setViewMode(mode ui.ViewMode) {
	if mode == m.viewMode {
		return
	}
	m.offsets[m.viewMode] = m.tokens.Offset()
	m.viewMode = mode
	m.tokens.SetMode(mode)
	m.tokens.SetOffset(m.offsets[mode])
	m.header.SetViewMode(mode.String())
	m.config.SetView(mode.String())
}

// setChatMode toggles chat transcript parsing
func (m *Model) setChatMode(on bool) {
	m.chatMode = on
	m.editor.SetChatMode(on)
	m.header.SetChatMode(on)
	m.retokenize()
}

// retryRender clears recorded render failures so the next View tries again.
func (m *Model) retryRender() tea.Cmd {
	for panel := range m.renderErrs {
		delete(m.renderErrs, panel)
	}
	m.tokens.Invalidate()
	return m.ShowFlashInfo("Retrying render")
}
