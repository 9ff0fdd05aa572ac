package modals

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// OpenFileState asks for a path to load into the editor.
type OpenFileState struct {
	form  *huh.Form
	path  string
	Error string
}

func (*OpenFileState) modalState() {}

func (s *OpenFileState) Title() string { return "Open File" }

func (s *OpenFileState) Help() string {
	return "Enter: open  Esc: cancel"
}

func (s *OpenFileState) Render() string {
	parts := []string{ModalTitleStyle.Render(s.Title()), s.form.View()}
	if s.Error != "" {
		parts = append(parts, StatusErrorStyle.Render(s.Error))
	}
	parts = append(parts, ModalHelpStyle.Render(s.Help()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *OpenFileState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Path returns the entered path with surrounding whitespace removed.
func (s *OpenFileState) Path() string {
	return strings.TrimSpace(s.path)
}

// NewOpenFileState creates the modal, prefilled with initial.
func NewOpenFileState(initial string) *OpenFileState {
	s := &OpenFileState{path: initial}
	s.form = newForm(ModalInputWidth, huh.NewGroup(
		huh.NewInput().
			Title("Path").
			Placeholder("~/notes.txt").
			CharLimit(ModalInputCharLimit).
			Value(&s.path),
	))
	return s
}
