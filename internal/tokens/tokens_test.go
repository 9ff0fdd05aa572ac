package tokens

import (
	"strings"
	"testing"

	"github.com/rivo/uniseg"
)

func TestDisplayText(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"empty", "", 30, ""},
		{"plain", "hello", 30, "hello"},
		{"leading space", " world", 30, "·world"},
		{"newline and tab", "\n\t", 30, "↵→"},
		{"exactly max", strings.Repeat("a", 30), 30, strings.Repeat("a", 30)},
		{"truncated", strings.Repeat("a", 31), 30, strings.Repeat("a", 29) + Ellipsis},
		{"grapheme safe", strings.Repeat("e\u0301", 5), 3, "e\u0301e\u0301" + Ellipsis},
		{"zero max", "abc", 0, ""},
		{"control byte", "a\x1bb", 30, "a�b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayText(tt.text, tt.max); got != tt.want {
				t.Errorf("DisplayText(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
		})
	}
}

func TestDisplayText_NeverExceedsMax(t *testing.T) {
	inputs := []string{
		strings.Repeat("x", 100),
		strings.Repeat("🙂", 40),
		strings.Repeat("e\u0301", 40),
	}
	for _, in := range inputs {
		got := DisplayText(in, MaxDisplayChars)
		if n := uniseg.GraphemeClusterCount(got); n > MaxDisplayChars {
			t.Errorf("DisplayText produced %d clusters, max %d", n, MaxDisplayChars)
		}
	}
}

func TestBuildItems(t *testing.T) {
	items := BuildItems([]int{10, 20, 30}, []string{"a", " b", "c"})

	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	for i, it := range items {
		if it.Index != i {
			t.Errorf("items[%d].Index = %d", i, it.Index)
		}
		if it.ColorKey != i%PaletteSize {
			t.Errorf("items[%d].ColorKey = %d", i, it.ColorKey)
		}
	}
	if items[1].DisplayText != "·b" {
		t.Errorf("items[1].DisplayText = %q, want %q", items[1].DisplayText, "·b")
	}
	if items[1].Label() != "·b" {
		t.Errorf("items[1].Label() = %q", items[1].Label())
	}
}

func TestBuildItems_WithoutTexts(t *testing.T) {
	items := BuildItems([]int{7, 8}, nil)
	for _, it := range items {
		if it.HasText() {
			t.Errorf("item %d should have no text", it.Index)
		}
	}
	if got := items[0].Label(); got != "[7]" {
		t.Errorf("Label() = %q, want %q", got, "[7]")
	}
}

func TestBuildItems_MismatchedTextsIgnored(t *testing.T) {
	items := BuildItems([]int{1, 2, 3}, []string{"only one"})
	if items[0].HasText() {
		t.Error("mismatched text slice must not be used")
	}
}

func TestColorKey_Wraps(t *testing.T) {
	if got := ColorKey(PaletteSize); got != 0 {
		t.Errorf("ColorKey(PaletteSize) = %d, want 0", got)
	}
	if got := ColorKey(PaletteSize*3 + 4); got != 4 {
		t.Errorf("ColorKey = %d, want 4", got)
	}
}
