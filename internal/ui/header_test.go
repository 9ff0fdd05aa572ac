package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestHeader_View_Title(t *testing.T) {
	header := NewHeader()
	header.SetWidth(80)

	view := ansi.Strip(header.View())

	if !strings.Contains(view, "tokenlens") {
		t.Errorf("Header should contain the title, got: %q", view)
	}
}

func TestHeader_View_ModelAndMode(t *testing.T) {
	header := NewHeader()
	header.SetWidth(120)
	header.SetModel("gpt-4o (o200k_base)")
	header.SetViewMode("grid")
	header.SetChatMode(true)
	header.SetSource("notes.md")

	view := ansi.Strip(header.View())

	for _, want := range []string{"gpt-4o (o200k_base)", "grid", "chat", "notes.md"} {
		if !strings.Contains(view, want) {
			t.Errorf("Header should contain %q, got: %q", want, view)
		}
	}
}

func TestHeader_View_FillsWidth(t *testing.T) {
	header := NewHeader()
	header.SetWidth(60)
	header.SetModel("cl100k_base")

	if w := ansi.StringWidth(header.View()); w != 60 {
		t.Errorf("Header width = %d, want 60", w)
	}
}

func TestHeader_View_NarrowTruncates(t *testing.T) {
	header := NewHeader()
	header.SetWidth(20)
	header.SetModel("text-embedding-3-large (cl100k_base)")

	if w := ansi.StringWidth(header.View()); w > 20 {
		t.Errorf("Header width = %d, want at most 20", w)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b int
	}{
		{"#7C3AED", 0x7C, 0x3A, 0xED},
		{"#000000", 0, 0, 0},
		{"bad", 0, 0, 0},
	}
	for _, tt := range tests {
		r, g, b := parseHexColor(tt.hex)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("parseHexColor(%q) = %d,%d,%d", tt.hex, r, g, b)
		}
	}
}
