package modals

import (
	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/tokenlens/internal/keys"
)

// newForm builds a stacked form without huh's own help line, styled with
// the current palette and already initialized so the first View is complete.
func newForm(width int, groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(width).
		WithLayout(huh.LayoutStack)
	form.Init()
	return form
}

// huhFormUpdate feeds msg to form. Enter and Esc never reach huh: the app
// reads the form's values on Enter and closes the modal on Esc.
func huhFormUpdate(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		if k := keyMsg.String(); k == keys.Enter || k == keys.Escape {
			return form, nil
		}
	}

	m, cmd := form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		form = f
	}
	return form, cmd
}

// ModalTheme returns a huh theme built from the palette at call time, so a
// form opened after a theme switch picks up the new colors.
func ModalTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)
		t.Focused = focusedFieldStyles(t.Focused)
		t.Blurred = blurredFieldStyles(t.Focused)

		t.Group.Title = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
		t.Group.Description = lipgloss.NewStyle().Foreground(ColorTextMuted)
		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		t.Help = help.New().Styles
		return t
	})
}

// focusedFieldStyles marks the active field with a colored left rule.
func focusedFieldStyles(f huh.FieldStyles) huh.FieldStyles {
	f.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(ColorPrimary)
	f.Card = f.Base
	f.Title = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	f.Description = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
	f.ErrorIndicator = lipgloss.NewStyle().Foreground(ColorWarning).SetString(" *")
	f.ErrorMessage = lipgloss.NewStyle().Foreground(ColorWarning)

	// model, backend and template pickers
	f.SelectSelector = lipgloss.NewStyle().Foreground(ColorPrimary).SetString("> ")
	f.NextIndicator = lipgloss.NewStyle().Foreground(ColorPrimary).MarginLeft(1).SetString("→")
	f.PrevIndicator = lipgloss.NewStyle().Foreground(ColorPrimary).MarginRight(1).SetString("←")
	f.Option = lipgloss.NewStyle().Foreground(ColorText)
	f.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)

	// notifications toggle
	button := lipgloss.NewStyle().Padding(0, 2).MarginRight(1)
	f.FocusedButton = button.Foreground(ColorTextInverse).Background(ColorPrimary)
	f.BlurredButton = button.Foreground(ColorTextMuted)

	// open-file path
	f.TextInput.Cursor = lipgloss.NewStyle().Foreground(ColorPrimary)
	f.TextInput.Placeholder = lipgloss.NewStyle().Foreground(ColorTextMuted)
	f.TextInput.Prompt = lipgloss.NewStyle().Foreground(ColorPrimary)
	f.TextInput.Text = lipgloss.NewStyle().Foreground(ColorText)
	return f
}

// blurredFieldStyles keeps the focused colors but drops the rule, indenting
// by the same amount so fields do not shift when focus moves.
func blurredFieldStyles(focused huh.FieldStyles) huh.FieldStyles {
	b := focused
	b.Base = lipgloss.NewStyle().PaddingLeft(2)
	b.Card = b.Base
	b.NextIndicator = lipgloss.NewStyle()
	b.PrevIndicator = lipgloss.NewStyle()
	return b
}
