package modals

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	helpCursor      = "> "
	helpMaxKeyWidth = 20
)

// helpEntry is one shortcut row. Filtering matches its section title too,
// so "/views" narrows to the view shortcuts.
type helpEntry struct {
	section  string
	shortcut HelpShortcut
}

func (e helpEntry) FilterValue() string {
	return e.shortcut.Key + " " + e.shortcut.Desc + " " + e.section
}

// helpHeading never matches a filter, so headings disappear while filtering.
type helpHeading string

func (helpHeading) FilterValue() string { return "" }

type helpDelegate struct {
	keyWidth int
}

func (helpDelegate) Height() int                          { return 1 }
func (helpDelegate) Spacing() int                         { return 0 }
func (helpDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d helpDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	switch it := item.(type) {
	case helpHeading:
		fmt.Fprint(w, lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary).Render(string(it)))
	case helpEntry:
		selected := index == m.Index()
		keyStyle, descStyle := helpRowStyles(selected)
		cursor := "  "
		if selected {
			cursor = helpCursor
		}
		descWidth := max(m.Width()-len(helpCursor)-d.keyWidth, 1)
		desc := ansi.Truncate(it.shortcut.Desc, descWidth, "…")
		fmt.Fprint(w, cursor+keyStyle.Width(d.keyWidth).Render(it.shortcut.Key)+descStyle.Render(desc))
	}
}

func helpRowStyles(selected bool) (key, desc lipgloss.Style) {
	if selected {
		base := lipgloss.NewStyle().Foreground(ColorTextInverse).Background(ColorPrimary)
		return base.Bold(true), base
	}
	return lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
		lipgloss.NewStyle().Foreground(ColorText)
}

// HelpState lists every shortcut grouped by section. The cursor only rests
// on shortcuts; Enter on one triggers it.
type HelpState struct {
	list list.Model
}

func (*HelpState) modalState() {}

func (s *HelpState) Title() string { return "Keyboard Shortcuts" }

func (s *HelpState) Help() string {
	if s.list.SettingFilter() {
		return "Type to filter  Enter: apply  Esc: cancel"
	}
	if s.list.IsFiltered() {
		return fmt.Sprintf("%d matches  /: filter  Enter: trigger  Esc: close", len(s.list.VisibleItems()))
	}
	return "/: filter  up/down: navigate  Enter: trigger  Esc: close"
}

func (s *HelpState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		s.list.View(),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *HelpState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	before := s.list.Index()
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	if after := s.list.Index(); after != before {
		s.skipHeading(after < before)
	}
	return s, cmd
}

// skipHeading moves the cursor off a section heading, continuing in the
// direction it was moving and turning back at either end.
func (s *HelpState) skipHeading(up bool) {
	items := s.list.VisibleItems()
	i := s.list.Index()
	if i < 0 || i >= len(items) {
		return
	}
	if _, ok := items[i].(helpHeading); !ok {
		return
	}
	step := 1
	if up {
		step = -1
	}
	for _, dir := range []int{step, -step} {
		for j := i + dir; j >= 0 && j < len(items); j += dir {
			if _, ok := items[j].(helpEntry); ok {
				s.list.Select(j)
				return
			}
		}
	}
}

// SetSize leaves room for the title and help lines and their margins.
func (s *HelpState) SetSize(width, height int) {
	s.list.SetSize(width, max(height-4, 1))
}

// GetSelectedShortcut returns the shortcut under the cursor, or nil.
func (s *HelpState) GetSelectedShortcut() *HelpShortcut {
	if e, ok := s.list.SelectedItem().(helpEntry); ok {
		return &e.shortcut
	}
	return nil
}

// IsFiltering reports whether the filter input has focus.
func (s *HelpState) IsFiltering() bool {
	return s.list.SettingFilter()
}

// NewHelpStateFromSections builds the help list with the cursor on the
// first shortcut.
func NewHelpStateFromSections(sections []HelpSection) *HelpState {
	var items []list.Item
	keyWidth := 0
	for _, sec := range sections {
		items = append(items, helpHeading(sec.Title))
		for _, sc := range sec.Shortcuts {
			items = append(items, helpEntry{section: sec.Title, shortcut: sc})
			keyWidth = max(keyWidth, ansi.StringWidth(sc.Key))
		}
	}
	keyWidth = min(keyWidth+2, helpMaxKeyWidth)

	l := list.New(items, helpDelegate{keyWidth: keyWidth}, ModalWidth, max(HelpMaxVisible, 1))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.SetFilteringEnabled(true)

	s := &HelpState{list: l}
	s.skipHeading(false)
	return s
}
