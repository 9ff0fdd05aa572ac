package ui

import (
	"fmt"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/tokenlens/internal/layout"
	"github.com/zhubert/tokenlens/internal/tokens"
)

func makeItems(n int) []tokens.Item {
	ids := make([]int, n)
	texts := make([]string, n)
	for i := range n {
		ids[i] = 1000 + i*37
		texts[i] = fmt.Sprintf(" tok%d", i)
	}
	return tokens.BuildItems(ids, texts)
}

func newTestView(n, width, height int) *TokenView {
	tv := NewTokenView(layout.DefaultMetrics())
	tv.SetSize(width, height)
	tv.SetItems(makeItems(n))
	return tv
}

func TestRenderChip_WidthMatchesLayout(t *testing.T) {
	m := layout.DefaultMetrics()
	tests := []struct {
		name  string
		id    int
		text  string
		noTxt bool
	}{
		{"ascii", 9906, "Hello", false},
		{"leading space", 1917, " world", false},
		{"wide runes", 57668, "你好", false},
		{"long text", 12, strings.Repeat("a", 45), false},
		{"no text", 100257, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var texts []string
			if !tt.noTxt {
				texts = []string{tt.text}
			}
			it := tokens.BuildItems([]int{tt.id}, texts)[0]
			got := ansi.StringWidth(RenderChip(it, m))
			if want := layout.TokenWidth(it, m); got != want {
				t.Errorf("chip width = %d, layout width = %d", got, want)
			}
		})
	}
}

func TestTokenView_ViewHasPanelSize(t *testing.T) {
	for _, mode := range ViewModes {
		tv := newTestView(500, 80, 20)
		tv.SetMode(mode)
		view := tv.View()
		if h := lipgloss.Height(view); h != 20 {
			t.Errorf("%s: height = %d, want 20", mode, h)
		}
		for _, line := range strings.Split(view, "\n") {
			if w := ansi.StringWidth(line); w > 80 {
				t.Errorf("%s: line width %d exceeds 80", mode, w)
			}
		}
	}
}

func TestTokenView_RealizedRowsBounded(t *testing.T) {
	for _, mode := range ViewModes {
		tv := newTestView(20000, 100, 30)
		tv.SetMode(mode)
		viewport := 30 - BorderSize - TitleHeight

		for _, offset := range []int{0, 1234, tv.TotalHeight()} {
			tv.SetOffset(offset)
			tv.View()
			if got, limit := tv.Realized(), viewport+2*mode.Overscan(); got > limit {
				t.Errorf("%s offset %d: realized %d rows, limit %d", mode, offset, got, limit)
			}
		}
	}
}

func TestTokenView_RowsAreCached(t *testing.T) {
	tv := newTestView(1000, 80, 20)
	tv.View()
	built := tv.Built()
	tv.View()
	if tv.Built() != built {
		t.Errorf("re-rendering the same window built %d new rows", tv.Built()-built)
	}

	tv.ScrollRows(1)
	tv.View()
	if tv.Built()-built != 1 {
		t.Errorf("scrolling one row built %d rows, want 1", tv.Built()-built)
	}
}

func TestTokenView_WindowDeterministic(t *testing.T) {
	tv := newTestView(5000, 80, 24)
	tv.SetMode(ViewGrid)

	tv.SetOffset(300)
	first := tv.Window()
	tv.ScrollToBottom()
	tv.SetOffset(300)
	again := tv.Window()

	if first.Start != again.Start || first.End != again.End ||
		first.VisibleStart != again.VisibleStart || first.VisibleEnd != again.VisibleEnd {
		t.Errorf("windows differ: %+v vs %+v", first, again)
	}
}

func TestTokenView_Indicator(t *testing.T) {
	tv := newTestView(100, 80, 13)
	tv.SetMode(ViewList)

	if got := tv.Indicator(); got != "1–10 of 100" {
		t.Errorf("top indicator = %q", got)
	}

	tv.ScrollToBottom()
	if got := tv.Indicator(); got != "91–100 of 100" {
		t.Errorf("bottom indicator = %q", got)
	}

	tv.SetItems(nil)
	if got := tv.Indicator(); got != "" {
		t.Errorf("empty indicator = %q", got)
	}
}

func TestTokenView_VisibleTokensExcludeOverscan(t *testing.T) {
	tv := newTestView(100, 80, 13)
	tv.SetMode(ViewList)
	tv.ScrollRows(40)

	w := tv.Window()
	if w.Start >= 40 || w.End <= 49 {
		t.Fatalf("window %+v should realize overscan rows around 40..49", w)
	}
	if x, y := tv.VisibleTokens(); x != 41 || y != 50 {
		t.Errorf("VisibleTokens = %d..%d, want 41..50", x, y)
	}
}

func TestTokenView_IndicatorClampsShortContent(t *testing.T) {
	tv := newTestView(3, 80, 20)
	tv.SetMode(ViewList)

	if got := tv.Indicator(); got != "1–3 of 3" {
		t.Errorf("indicator = %q", got)
	}
}

func TestTokenView_GridRows(t *testing.T) {
	tv := newTestView(101, 2+3*GridCellWidth+2*GridGap, 20)
	tv.SetMode(ViewGrid)

	if got := tv.RowCount(); got != 34 {
		t.Errorf("RowCount = %d, want 34 (3 columns)", got)
	}
	if got := tv.TotalHeight(); got != 34*GridRowHeight {
		t.Errorf("TotalHeight = %d", got)
	}
}

func TestTokenView_RelayoutIsDeferred(t *testing.T) {
	tv := newTestView(2000, 120, 20)
	wide := len(tv.Lines())

	tv.SetSize(60, 20)
	if !tv.PendingRelayout() {
		t.Fatal("inline relayout should wait for Relayout")
	}
	if len(tv.Lines()) != wide {
		t.Error("lines changed before Relayout")
	}

	if !tv.Relayout() {
		t.Fatal("Relayout should run for a new width")
	}
	if tv.PendingRelayout() {
		t.Error("no relayout should be pending")
	}
	if narrow := len(tv.Lines()); narrow < wide {
		t.Errorf("narrower width gave fewer lines: %d < %d", narrow, wide)
	}
	if tv.Relayout() {
		t.Error("second Relayout at the same width should be a no-op")
	}
}

func TestTokenView_RelayoutKeepsAnchor(t *testing.T) {
	tv := newTestView(2000, 120, 20)
	tv.SetOffset(40)
	anchor := tv.FirstVisibleToken()

	tv.SetSize(70, 20)
	tv.Relayout()

	line := tv.Lines()[tv.Offset()]
	if anchor < line.StartIndex || anchor > line.EndIndex {
		t.Errorf("anchor token %d not on top line [%d, %d]", anchor, line.StartIndex, line.EndIndex)
	}
}

func TestTokenView_ScrollClamps(t *testing.T) {
	tv := newTestView(10, 80, 20)
	tv.SetMode(ViewList)

	tv.ScrollRows(-5)
	if tv.Offset() != 0 {
		t.Errorf("offset = %d, want 0", tv.Offset())
	}
	tv.ScrollRows(50)
	if tv.Offset() != 0 {
		t.Errorf("content shorter than viewport should not scroll, offset = %d", tv.Offset())
	}
}

func TestTokenView_Empty(t *testing.T) {
	tv := NewTokenView(layout.DefaultMetrics())
	tv.SetSize(80, 10)

	if view := ansi.Strip(tv.View()); !strings.Contains(view, "No tokens yet") {
		t.Errorf("empty view = %q", view)
	}

	tv.SetLoading(true)
	if view := ansi.Strip(tv.View()); !strings.Contains(view, "Tokenizing") {
		t.Errorf("loading view = %q", view)
	}
}

func TestTokenView_ListShowsDetails(t *testing.T) {
	tv := newTestView(5, 80, 10)
	tv.SetMode(ViewList)

	view := ansi.Strip(tv.View())
	if !strings.Contains(view, "·tok0") || !strings.Contains(view, "1000") {
		t.Errorf("list view missing token details: %q", view)
	}
}

func TestViewMode(t *testing.T) {
	tests := []struct {
		in   string
		want ViewMode
	}{
		{"inline", ViewInline},
		{"GRID", ViewGrid},
		{" list ", ViewList},
		{"bogus", ViewInline},
	}
	for _, tt := range tests {
		if got := ParseViewMode(tt.in); got != tt.want {
			t.Errorf("ParseViewMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if ViewList.Next() != ViewInline || ViewInline.Next() != ViewGrid {
		t.Error("Next should cycle inline → grid → list → inline")
	}
	if ViewList.Overscan() <= ViewGrid.Overscan() {
		t.Error("list overscan should be larger than grid overscan")
	}
}
