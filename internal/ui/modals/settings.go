package modals

import (
	"slices"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

const optionNotifications = "notifications"

// SettingsValues are the fields the settings modal edits.
type SettingsValues struct {
	Theme         string
	ChatTemplate  string
	Backend       string
	Notifications bool
}

// SettingsState edits the persisted preferences.
type SettingsState struct {
	form *huh.Form

	theme        string
	chatTemplate string
	backend      string
	options      []string

	// OriginalTheme is restored when the modal is cancelled after a live
	// theme preview.
	OriginalTheme string
}

func (*SettingsState) modalState() {}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Tab: next field  Space: toggle  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		s.form.View(),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Values returns what the form currently holds.
func (s *SettingsState) Values() SettingsValues {
	return SettingsValues{
		Theme:         s.theme,
		ChatTemplate:  s.chatTemplate,
		Backend:       s.backend,
		Notifications: slices.Contains(s.options, optionNotifications),
	}
}

// SelectedTheme returns the highlighted theme, for live preview.
func (s *SettingsState) SelectedTheme() string {
	return s.theme
}

func stringOptions(values []string) []huh.Option[string] {
	opts := make([]huh.Option[string], len(values))
	for i, v := range values {
		opts[i] = huh.NewOption(v, v)
	}
	return opts
}

// NewSettingsState creates the settings modal. themes, templates and
// backends are offered as choices; current supplies the initial values.
func NewSettingsState(current SettingsValues, themes, templates, backends []string) *SettingsState {
	s := &SettingsState{
		theme:         current.Theme,
		chatTemplate:  current.ChatTemplate,
		backend:       current.Backend,
		OriginalTheme: current.Theme,
	}

	generalOpts := []huh.Option[string]{
		huh.NewOption("Desktop notifications", optionNotifications).
			Selected(current.Notifications),
	}
	if current.Notifications {
		s.options = append(s.options, optionNotifications)
	}

	s.form = newForm(ModalWidth-4, huh.NewGroup(
		huh.NewSelect[string]().
			Title("Theme").
			Options(stringOptions(themes)...).
			Value(&s.theme),
		huh.NewSelect[string]().
			Title("Chat template").
			Description("How role/content lines are framed when counted").
			Options(stringOptions(templates)...).
			Value(&s.chatTemplate),
		huh.NewSelect[string]().
			Title("Backend").
			Options(stringOptions(backends)...).
			Value(&s.backend),
		huh.NewMultiSelect[string]().
			Title("Options").
			Options(generalOpts...).
			Height(len(generalOpts)).
			Value(&s.options),
	))
	return s
}
