package modals

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/zhubert/tokenlens/internal/models"
)

const modelPickerHeight = 12

// ModelPickerState selects the model or raw encoding to tokenize with.
type ModelPickerState struct {
	form     *huh.Form
	selected string
}

func (*ModelPickerState) modalState() {}

func (s *ModelPickerState) Title() string { return "Model" }

func (s *ModelPickerState) Help() string {
	return "up/down: navigate  /: filter  Enter: select  Esc: cancel"
}

func (s *ModelPickerState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		s.form.View(),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *ModelPickerState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Selected returns the highlighted model id or encoding name.
func (s *ModelPickerState) Selected() string {
	return s.selected
}

// ModelOptionLabel is the picker text for a model.
func ModelOptionLabel(m models.Model) string {
	label := fmt.Sprintf("%-22s %s", m.ID, m.Encoding)
	if m.ContextWindow > 0 {
		label += "  " + humanize.Comma(int64(m.ContextWindow)) + " ctx"
	}
	return label
}

// NewModelPickerState lists every registered model followed by the raw
// encodings, with current highlighted when it matches an entry.
func NewModelPickerState(current string) *ModelPickerState {
	s := &ModelPickerState{selected: current}

	var opts []huh.Option[string]
	for _, m := range models.List() {
		opts = append(opts, huh.NewOption(ModelOptionLabel(m), m.ID))
	}
	for _, enc := range models.Encodings {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%-22s raw encoding", enc), enc))
	}

	// Resolve so dated snapshots highlight their base model.
	r := models.Resolve(current)
	switch {
	case r.Model != nil:
		s.selected = r.Model.ID
	case r.Kind == models.KindEncoding:
		s.selected = r.Encoding
	}

	s.form = newForm(ModalWidth-4, huh.NewGroup(
		huh.NewSelect[string]().
			Options(opts...).
			Height(modelPickerHeight).
			Filtering(true).
			Value(&s.selected),
	))
	return s
}
