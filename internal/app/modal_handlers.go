package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tokenlens/internal/keys"
	"github.com/zhubert/tokenlens/internal/models"
	"github.com/zhubert/tokenlens/internal/ui"
	"github.com/zhubert/tokenlens/internal/ui/modals"
)

// handleModalKey routes modal key events to the appropriate handler based on modal state type.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch s := m.modal.State.(type) {
	case *modals.HelpState:
		return m.handleHelpModal(key, msg, s)
	case *modals.ModelPickerState:
		return m.handleModelPickerModal(key, msg, s)
	case *modals.OpenFileState:
		return m.handleOpenFileModal(key, msg, s)
	case *modals.SettingsState:
		return m.handleSettingsModal(key, msg, s)
	}

	if key == keys.Escape {
		m.modal.Hide()
		return m, nil
	}
	return m.forwardToModal(msg)
}

func (m *Model) forwardToModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

func (m *Model) handleHelpModal(key string, msg tea.KeyPressMsg, state *modals.HelpState) (tea.Model, tea.Cmd) {
	// While filtering, forward all keys to the list (Esc cancels filter, Enter applies)
	if state.IsFiltering() {
		return m.forwardToModal(msg)
	}

	switch key {
	case keys.Escape, keys.CtrlG, "?", "q":
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		shortcut := state.GetSelectedShortcut()
		if shortcut != nil {
			m.modal.Hide()
			return m, func() tea.Msg {
				return modals.HelpShortcutTriggeredMsg{Key: shortcut.Key}
			}
		}
		return m, nil
	}
	return m.forwardToModal(msg)
}

func (m *Model) handleModelPickerModal(key string, msg tea.KeyPressMsg, state *modals.ModelPickerState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		selected := state.Selected()
		m.modal.Hide()
		if selected == "" || selected == m.config.GetModel() {
			return m, nil
		}
		m.config.SetModel(selected)
		res := models.Resolve(selected)
		m.header.SetModel(res.Label())
		m.log.Info("model changed", "model", selected, "encoding", res.Encoding)
		m.retokenize()
		return m, m.saveConfigOrFlash()
	}
	return m.forwardToModal(msg)
}

func (m *Model) handleOpenFileModal(key string, msg tea.KeyPressMsg, state *modals.OpenFileState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		path := state.Path()
		if path == "" {
			m.modal.SetError("Enter a file path")
			return m, nil
		}
		if err := m.loadFile(path); err != nil {
			// Keep the modal open so the path can be corrected
			m.modal.SetError(err.Error())
			return m, nil
		}
		m.modal.Hide()
		return m, tea.Batch(
			m.ShowFlashSuccess("Loaded "+m.editor.FileName()),
			m.listenForFileChanges(),
		)
	}
	return m.forwardToModal(msg)
}

func (m *Model) handleSettingsModal(key string, msg tea.KeyPressMsg, state *modals.SettingsState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		// Undo the live preview
		if string(ui.CurrentThemeName()) != state.OriginalTheme {
			ui.SetThemeByName(state.OriginalTheme)
			m.editor.RefreshStyles()
			m.tokens.Invalidate()
		}
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		v := state.Values()
		m.applyTheme(ui.ThemeName(v.Theme))
		m.config.SetNotificationsEnabled(v.Notifications)

		restart := v.Backend != m.config.GetBackend() || v.ChatTemplate != m.config.GetChatTemplate()
		m.config.SetBackend(v.Backend)
		m.config.SetChatTemplate(v.ChatTemplate)

		if err := m.config.Save(); err != nil {
			m.log.Error("failed to save settings", "error", err)
			m.modal.SetError("Failed to save: " + err.Error())
			return m, nil
		}
		m.modal.Hide()

		var cmd tea.Cmd
		if restart {
			m.log.Info("restarting worker", "backend", v.Backend, "template", v.ChatTemplate)
			cmd = m.restartClient()
		}
		return m, tea.Batch(cmd, m.ShowFlashSuccess("Settings saved"))
	}

	result, cmd := m.forwardToModal(msg)
	// Live theme preview while the selection moves
	if selected := state.SelectedTheme(); selected != "" && selected != string(ui.CurrentThemeName()) {
		ui.SetThemeByName(selected)
		m.editor.RefreshStyles()
		m.tokens.Invalidate()
	}
	return result, cmd
}
