package ui

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/tokenlens/internal/layout"
)

func TestTokenView_TokenAtInline(t *testing.T) {
	tv := newTestView(200, 80, 20)
	lines := tv.Lines()
	m := layout.DefaultMetrics()
	if len(lines) < 25 || lines[0].Count() < 2 {
		t.Fatalf("need several multi-token lines, got %d lines", len(lines))
	}
	w0 := layout.TokenWidth(lines[0].Tokens[0], m)

	tests := []struct {
		name      string
		col, line int
		want      int
	}{
		{"first chip", 0, 0, 0},
		{"inside first chip", w0 - 1, 0, 0},
		{"second chip", w0 + m.TokenGap, 0, 1},
		{"second line", 0, 1, lines[1].StartIndex},
		{"title row", 0, -1, -1},
		{"left of body", -1, 0, -1},
		{"below body", 0, 17, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tv.TokenAt(tt.col, tt.line); got != tt.want {
				t.Errorf("TokenAt(%d, %d) = %d, want %d", tt.col, tt.line, got, tt.want)
			}
		})
	}

	tv.ScrollRows(3)
	if got := tv.TokenAt(0, 0); got != lines[3].StartIndex {
		t.Errorf("after scrolling 3 rows TokenAt(0, 0) = %d, want %d", got, lines[3].StartIndex)
	}
}

func TestTokenView_TokenAtGrid(t *testing.T) {
	tv := newTestView(200, 80, 20)
	tv.SetMode(ViewGrid)
	secondRow, _ := tv.grid.RowCells(1)

	if got := tv.TokenAt(0, 0); got != 0 {
		t.Errorf("first cell = %d, want 0", got)
	}
	if got := tv.TokenAt(GridCellWidth+GridGap, 0); got != 1 {
		t.Errorf("second cell = %d, want 1", got)
	}
	if got := tv.TokenAt(0, 1); got != 0 {
		t.Errorf("id line of first cell = %d, want 0", got)
	}
	if got := tv.TokenAt(0, GridRowHeight); got != secondRow {
		t.Errorf("second grid row = %d, want %d", got, secondRow)
	}
}

func TestTokenView_TokenAtList(t *testing.T) {
	tv := newTestView(200, 80, 20)
	tv.SetMode(ViewList)
	tv.ScrollRows(10)

	if got := tv.TokenAt(30, 4); got != 14 {
		t.Errorf("TokenAt = %d, want 14", got)
	}
}

func TestTokenView_DragSelects(t *testing.T) {
	tv := newTestView(200, 80, 20)
	lines := tv.Lines()

	tv.StartSelection(0, 0)
	if !tv.Selecting() {
		t.Fatal("press on a chip should start a selection")
	}
	tv.ExtendSelection(0, 2)
	if !tv.StopSelection() {
		t.Fatal("a dragged selection should remain after release")
	}
	if start, end := tv.Selection(); start != 0 || end != lines[2].StartIndex {
		t.Errorf("selection = %d..%d, want 0..%d", start, end, lines[2].StartIndex)
	}
	if n := len(tv.SelectedItems()); n != lines[2].StartIndex+1 {
		t.Errorf("selected %d items, want %d", n, lines[2].StartIndex+1)
	}
}

func TestTokenView_DragBackwardIsNormalized(t *testing.T) {
	tv := newTestView(200, 80, 20)
	lines := tv.Lines()

	tv.StartSelection(0, 2)
	tv.ExtendSelection(0, 0)
	tv.StopSelection()
	if start, end := tv.Selection(); start != 0 || end != lines[2].StartIndex {
		t.Errorf("selection = %d..%d, want 0..%d", start, end, lines[2].StartIndex)
	}
}

func TestTokenView_ClickWithoutDragClears(t *testing.T) {
	tv := newTestView(200, 80, 20)

	tv.StartSelection(0, 0)
	if tv.StopSelection() {
		t.Error("release without movement should not keep a selection")
	}
	if tv.HasSelection() {
		t.Error("selection should be cleared")
	}
}

func TestTokenView_DragOutsideSnapsToNearest(t *testing.T) {
	tv := newTestView(200, 80, 20)
	lines := tv.Lines()
	lastVisible := lines[tv.viewportHeight()-1]

	tv.StartSelection(0, 0)
	tv.ExtendSelection(500, 1000)
	tv.StopSelection()
	if _, end := tv.Selection(); end != lastVisible.EndIndex {
		t.Errorf("end = %d, want last visible token %d", end, lastVisible.EndIndex)
	}
}

func TestTokenView_DoubleClickSelectsToken(t *testing.T) {
	tv := newTestView(200, 80, 20)
	lines := tv.Lines()

	if tv.HandleClick(0, 1) {
		t.Error("a single click should not ask for a copy")
	}
	tv.StopSelection()
	if !tv.HandleClick(1, 1) {
		t.Fatal("a double click should ask for a copy")
	}
	want := lines[1].StartIndex
	if start, end := tv.Selection(); start != want || end != want {
		t.Errorf("selection = %d..%d, want %d..%d", start, end, want, want)
	}
}

func TestTokenView_SetItemsClearsSelection(t *testing.T) {
	tv := newTestView(200, 80, 20)
	tv.StartSelection(0, 0)
	tv.ExtendSelection(0, 1)
	tv.StopSelection()

	tv.SetItems(makeItems(5))
	if tv.HasSelection() {
		t.Error("a new token set should drop the selection")
	}
}

func TestTokenView_SelectionFlash(t *testing.T) {
	tv := newTestView(10, 80, 20)
	if tv.IsSelectionFlashing() {
		t.Fatal("should not flash initially")
	}
	tv.StartSelectionFlash()
	if !tv.IsSelectionFlashing() {
		t.Error("expected flash after StartSelectionFlash")
	}
	tv.EndSelectionFlash()
	if tv.IsSelectionFlashing() {
		t.Error("expected flash to end")
	}
}

func TestTokenView_SelectionHighlightKeepsLayout(t *testing.T) {
	for _, mode := range ViewModes {
		tv := newTestView(500, 80, 20)
		tv.SetMode(mode)
		plain := tv.View()

		tv.StartSelection(0, 0)
		tv.ExtendSelection(10, 3)
		tv.StopSelection()
		highlighted := tv.View()

		if highlighted == plain {
			t.Errorf("%s: selection should change the rendering", mode)
		}
		if h := lipgloss.Height(highlighted); h != 20 {
			t.Errorf("%s: height = %d, want 20", mode, h)
		}
		plainLines := strings.Split(plain, "\n")
		for i, line := range strings.Split(highlighted, "\n") {
			if w := ansi.StringWidth(line); w > 80 {
				t.Errorf("%s: line %d width %d exceeds 80", mode, i, w)
			}
			got := strings.TrimRight(ansi.Strip(line), " ")
			want := strings.TrimRight(ansi.Strip(plainLines[i]), " ")
			if got != want {
				t.Errorf("%s: line %d text changed:\n got %q\nwant %q", mode, i, got, want)
			}
		}
	}
}
