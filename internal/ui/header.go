package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Header represents the top header bar
type Header struct {
	width    int
	model    string
	mode     string
	source   string
	chatMode bool
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetModel sets the resolved model label, e.g. "gpt-4o (o200k_base)"
func (h *Header) SetModel(label string) {
	h.model = label
}

// SetViewMode sets the active token view name
func (h *Header) SetViewMode(mode string) {
	h.mode = mode
}

// SetSource sets the loaded file name, empty for typed text
func (h *Header) SetSource(source string) {
	h.source = source
}

// SetChatMode toggles the chat marker
func (h *Header) SetChatMode(on bool) {
	h.chatMode = on
}

// View renders the header
func (h *Header) View() string {
	titleText := " tokenlens"
	if h.source != "" {
		titleText += " · " + h.source
	}

	var parts []string
	if h.model != "" {
		parts = append(parts, h.model)
	}
	if h.chatMode {
		parts = append(parts, "chat")
	}
	if h.mode != "" {
		parts = append(parts, h.mode)
	}
	var rightText string
	if len(parts) > 0 {
		rightText = strings.Join(parts, " · ") + " "
	}

	paddingLen := h.width - ansi.StringWidth(titleText) - ansi.StringWidth(rightText)
	if paddingLen < 0 {
		titleText = ansi.Truncate(titleText, max(h.width-ansi.StringWidth(rightText), 0), "…")
		paddingLen = 0
	}

	fullContent := titleText + strings.Repeat(" ", paddingLen) + rightText
	return h.renderGradient(ansi.Truncate(fullContent, h.width, ""), len([]rune(titleText)))
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders the content with a theme-aware gradient background.
// The first boldLen runes are rendered bold.
func (h *Header) renderGradient(content string, boldLen int) string {
	if len(content) == 0 {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	// fade to the main background
	endR, endG, endB := parseHexColor(theme.Bg)
	textColor := lipgloss.Color(theme.Text)

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)

		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Foreground(textColor).
			Bold(i < boldLen)

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
