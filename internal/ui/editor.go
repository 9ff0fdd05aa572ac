package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// PreviewLimit caps how much of a loaded file the editor shows.
const PreviewLimit = 64 * 1024

const (
	textPlaceholder = "Type or paste text to tokenize. Drop a file path to load it."
	chatPlaceholder = "system: You are a helpful assistant.\nuser: Hello!\nassistant: Hi, how can I help?"
)

// Editor is the input panel. Typed text goes through a textarea; a loaded
// file is shown read-only in a viewport until it is cleared.
type Editor struct {
	width    int
	height   int
	focused  bool
	chatMode bool

	input   textarea.Model
	preview viewport.Model

	fileName string
	fileText string
}

// NewEditor creates an empty editor
func NewEditor() *Editor {
	ti := textarea.New()
	ti.Placeholder = textPlaceholder
	ti.CharLimit = 0
	ti.ShowLineNumbers = false
	ti.Prompt = ""
	applyTextareaStyles(&ti)

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &Editor{input: ti, preview: vp}
}

// SetSize sets the panel dimensions, borders included
func (e *Editor) SetSize(width, height int) {
	e.width = width
	e.height = height

	ctx := GetViewContext()
	innerWidth := ctx.InnerWidth(width)
	innerHeight := max(ctx.InnerHeight(height)-TitleHeight, 1)

	e.input.SetWidth(innerWidth)
	e.input.SetHeight(innerHeight)
	e.preview.SetWidth(innerWidth)
	e.preview.SetHeight(innerHeight)
}

// SetFocused sets the focus state
func (e *Editor) SetFocused(focused bool) {
	e.focused = focused
	if focused {
		e.input.Focus()
	} else {
		e.input.Blur()
	}
}

// IsFocused returns the focus state
func (e *Editor) IsFocused() bool {
	return e.focused
}

// SetChatMode switches the placeholder and title to chat transcripts
func (e *Editor) SetChatMode(on bool) {
	e.chatMode = on
	if on {
		e.input.Placeholder = chatPlaceholder
	} else {
		e.input.Placeholder = textPlaceholder
	}
}

// Value returns the text to tokenize: the loaded file, or what was typed
func (e *Editor) Value() string {
	if e.fileName != "" {
		return e.fileText
	}
	return e.input.Value()
}

// SetValue replaces the typed text
func (e *Editor) SetValue(s string) {
	e.input.SetValue(s)
}

// LoadFile shows a file read-only. Typed text is kept for when the file is
// cleared.
func (e *Editor) LoadFile(name, text string) {
	e.fileName = name
	e.fileText = text
	e.preview.SetContent(previewText(text))
	e.preview.GotoTop()
}

// ClearFile returns to the typed text
func (e *Editor) ClearFile() {
	e.fileName = ""
	e.fileText = ""
	e.preview.SetContent("")
}

// HasFile reports whether a file is loaded
func (e *Editor) HasFile() bool {
	return e.fileName != ""
}

// FileName returns the loaded file's name
func (e *Editor) FileName() string {
	return e.fileName
}

// Reset clears both the typed text and any loaded file
func (e *Editor) Reset() {
	e.ClearFile()
	e.input.Reset()
}

// Update forwards input to the textarea, or scrolls the file preview
func (e *Editor) Update(msg tea.Msg) (*Editor, tea.Cmd) {
	var cmd tea.Cmd
	if e.fileName != "" {
		e.preview, cmd = e.preview.Update(msg)
		return e, cmd
	}
	if !e.focused {
		return e, nil
	}
	e.input, cmd = e.input.Update(msg)
	return e, cmd
}

// View renders the editor panel
func (e *Editor) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if e.focused {
		style = PanelFocusedStyle
	}

	var body string
	if e.fileName != "" {
		body = e.preview.View()
	} else {
		body = e.input.View()
	}

	content := ansi.Truncate(e.title(), ctx.InnerWidth(e.width), "…") + "\n" + body
	return style.Width(e.width).Height(e.height).Render(content)
}

func (e *Editor) title() string {
	switch {
	case e.fileName != "":
		return PanelTitleStyle.Render("File") +
			StatsLabelStyle.Render(fmt.Sprintf(" · %s (%s, read-only, ctrl+l to clear)",
				e.fileName, humanize.Bytes(uint64(len(e.fileText)))))
	case e.chatMode:
		return PanelTitleStyle.Render("Chat") +
			StatsLabelStyle.Render(" · role: content lines")
	default:
		return PanelTitleStyle.Render("Text")
	}
}

// previewText cuts text at PreviewLimit on a rune boundary.
func previewText(text string) string {
	if len(text) <= PreviewLimit {
		return text
	}
	cut := PreviewLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	var sb strings.Builder
	sb.WriteString(text[:cut])
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true).
		Render(fmt.Sprintf("… %s more not shown", humanize.Bytes(uint64(len(text)-cut)))))
	return sb.String()
}

// applyTextareaStyles drops the textarea's default background so it matches
// the terminal.
func applyTextareaStyles(ta *textarea.Model) {
	styles := ta.Styles()

	baseStyle := lipgloss.NewStyle()
	textStyle := lipgloss.NewStyle().Foreground(ColorText)
	placeholderStyle := lipgloss.NewStyle().Foreground(ColorTextMuted)

	styles.Focused.Base = baseStyle
	styles.Focused.Text = textStyle
	styles.Focused.Placeholder = placeholderStyle
	styles.Focused.CursorLine = textStyle
	styles.Focused.Prompt = textStyle

	styles.Blurred.Base = baseStyle
	styles.Blurred.Text = textStyle
	styles.Blurred.Placeholder = placeholderStyle
	styles.Blurred.CursorLine = textStyle
	styles.Blurred.Prompt = textStyle

	ta.SetStyles(styles)
}

// RefreshStyles reapplies theme colors after a theme change
func (e *Editor) RefreshStyles() {
	applyTextareaStyles(&e.input)
}
