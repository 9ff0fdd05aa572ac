// Package tokens turns a tokenization result into display items.
package tokens

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// MaxDisplayChars is the longest token text shown inside a chip.
const MaxDisplayChars = 30

// PaletteSize is the number of colors tokens cycle through.
const PaletteSize = 10

// Ellipsis marks a truncated display text.
const Ellipsis = "…"

// Item is a single token chip. Items are immutable and replaced wholesale
// whenever a new tokenization result arrives.
type Item struct {
	Index       int
	ID          int
	Text        string // raw decoded text, empty if unavailable
	DisplayText string // visible-whitespace, truncated text
	ColorKey    int
}

// HasText reports whether per-token text was available for this item.
func (it Item) HasText() bool {
	return it.Text != ""
}

// Label is what a renderer shows for the token text: the display text, or the
// bracketed id when no text is available.
func (it Item) Label() string {
	if it.DisplayText != "" {
		return it.DisplayText
	}
	return "[" + strconv.Itoa(it.ID) + "]"
}

// ColorKey maps a token index onto the palette.
func ColorKey(index int) int {
	if index < 0 {
		index = -index
	}
	return index % PaletteSize
}

// BuildItems pairs ids with their texts. When texts is empty or its length
// does not match ids, every item falls back to its bracketed id.
func BuildItems(ids []int, texts []string) []Item {
	useTexts := len(texts) == len(ids)
	items := make([]Item, len(ids))
	for i, id := range ids {
		it := Item{Index: i, ID: id, ColorKey: ColorKey(i)}
		if useTexts {
			it.Text = texts[i]
			it.DisplayText = DisplayText(texts[i], MaxDisplayChars)
		}
		items[i] = it
	}
	return items
}

var whitespace = strings.NewReplacer(
	" ", "·",
	"\n", "↵",
	"\r", "␍",
	"\t", "→",
)

// controlToPicture keeps terminal control bytes out of rendered chips.
func controlToPicture(r rune) rune {
	if unicode.IsControl(r) {
		return '�'
	}
	return r
}

// DisplayText makes whitespace visible and truncates to max grapheme
// clusters, ending with an ellipsis when something was cut.
func DisplayText(text string, max int) string {
	if text == "" || max <= 0 {
		return ""
	}
	visible := strings.Map(controlToPicture, whitespace.Replace(text))
	if uniseg.GraphemeClusterCount(visible) <= max {
		return visible
	}

	var sb strings.Builder
	g := uniseg.NewGraphemes(visible)
	for n := 0; n < max-1 && g.Next(); n++ {
		sb.WriteString(g.Str())
	}
	sb.WriteString(Ellipsis)
	return sb.String()
}
