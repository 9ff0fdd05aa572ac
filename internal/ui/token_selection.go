package ui

import (
	"image/color"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/zhubert/tokenlens/internal/layout"
	"github.com/zhubert/tokenlens/internal/tokens"
)

// Selection positions are body coordinates: (0,0) is the first cell under
// the panel title, inside the border. Line n of the body is scroll offset+n
// of the active variant, so a position maps to a row without looking at the
// rendered text.

// SelectionFlashTickMsg ends the highlight flash that follows a copy.
type SelectionFlashTickMsg time.Time

const (
	doubleClickThreshold = 500 * time.Millisecond
	clickTolerance       = 2 // cells
)

// tokenSelection is a contiguous run of token indices chosen with the mouse.
type tokenSelection struct {
	anchor, end int // -1 when nothing is selected
	active      bool
	dragged     bool
	startCol    int
	startLine   int
	flashFrame  int // 0 while flashing after a copy, -1 otherwise

	lastClickTime time.Time
	lastClickCol  int
	lastClickLine int
	clickCount    int
}

func newTokenSelection() tokenSelection {
	return tokenSelection{anchor: -1, end: -1, flashFrame: -1}
}

// cellSpan is the columns [x0, x1) token index covers in its row.
type cellSpan struct {
	index  int
	x0, x1 int
}

// SelectionFlashTick returns a command that ends the copy flash
func SelectionFlashTick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return SelectionFlashTickMsg(t)
	})
}

// HandleClick starts a selection at a body position. A double click selects
// the token under the pointer outright and reports true, meaning the caller
// should copy it.
func (tv *TokenView) HandleClick(col, line int) bool {
	now := time.Now()
	s := &tv.sel

	if now.Sub(s.lastClickTime) <= doubleClickThreshold &&
		abs(col-s.lastClickCol) <= clickTolerance &&
		abs(line-s.lastClickLine) <= clickTolerance {
		s.clickCount++
	} else {
		s.clickCount = 1
	}
	s.lastClickTime = now
	s.lastClickCol = col
	s.lastClickLine = line

	if s.clickCount >= 2 {
		s.clickCount = 0
		idx := tv.TokenAt(col, line)
		if idx < 0 {
			return false
		}
		s.anchor, s.end = idx, idx
		s.active = false
		s.dragged = true
		return true
	}

	tv.StartSelection(col, line)
	return false
}

// StartSelection anchors a selection on the token at a body position.
func (tv *TokenView) StartSelection(col, line int) {
	tv.ClearSelection()
	idx := tv.TokenAt(col, line)
	if idx < 0 {
		return
	}
	s := &tv.sel
	s.anchor, s.end = idx, idx
	s.active = true
	s.startCol, s.startLine = col, line
}

// ExtendSelection moves the free end of an active selection. Positions
// outside the body snap to the nearest token.
func (tv *TokenView) ExtendSelection(col, line int) {
	s := &tv.sel
	if !s.active {
		return
	}
	if idx := tv.tokenNear(col, line); idx >= 0 {
		s.end = idx
	}
	if col != s.startCol || line != s.startLine {
		s.dragged = true
	}
}

// StopSelection ends the drag. A press and release without movement is a
// plain click and clears the selection. It reports whether a selection
// remains.
func (tv *TokenView) StopSelection() bool {
	s := &tv.sel
	s.active = false
	if !s.dragged {
		tv.ClearSelection()
		return false
	}
	return tv.HasSelection()
}

// ClearSelection drops the selection.
func (tv *TokenView) ClearSelection() {
	s := &tv.sel
	s.anchor, s.end = -1, -1
	s.active = false
	s.dragged = false
}

// Selecting reports whether a drag is in progress.
func (tv *TokenView) Selecting() bool {
	return tv.sel.active
}

// HasSelection reports whether any token is selected.
func (tv *TokenView) HasSelection() bool {
	return tv.sel.anchor >= 0 && tv.sel.end >= 0
}

// Selection returns the selected token indices in order, or -1, -1.
func (tv *TokenView) Selection() (start, end int) {
	if !tv.HasSelection() {
		return -1, -1
	}
	start, end = tv.sel.anchor, tv.sel.end
	if start > end {
		start, end = end, start
	}
	return start, end
}

// SelectedItems returns the selected tokens.
func (tv *TokenView) SelectedItems() []tokens.Item {
	start, end := tv.Selection()
	if start < 0 || start >= len(tv.items) {
		return nil
	}
	return tv.items[start : min(end, len(tv.items)-1)+1]
}

// StartSelectionFlash highlights the selection in the copy color until
// EndSelectionFlash.
func (tv *TokenView) StartSelectionFlash() {
	tv.sel.flashFrame = 0
}

// EndSelectionFlash returns the selection to its normal color.
func (tv *TokenView) EndSelectionFlash() {
	tv.sel.flashFrame = -1
}

// IsSelectionFlashing returns whether the copy flash is showing
func (tv *TokenView) IsSelectionFlashing() bool {
	return tv.sel.flashFrame >= 0
}

// TokenAt returns the token under a body position, or -1 when the position
// is outside the body. Gaps between chips belong to the chip on their left.
func (tv *TokenView) TokenAt(col, line int) int {
	if line < 0 || line >= tv.viewportHeight() || col < 0 || col >= tv.innerWidth() {
		return -1
	}
	row, _, ok := tv.rowAtLine(line)
	if !ok {
		return -1
	}
	return hitSpan(tv.rowSpans(row), col)
}

// tokenNear is TokenAt with the position clamped into the content.
func (tv *TokenView) tokenNear(col, line int) int {
	if len(tv.items) == 0 || tv.rows.TotalSize() == 0 {
		return -1
	}
	line = min(max(line, 0), max(tv.viewportHeight()-1, 0))
	y := min(tv.offset+line, tv.rows.TotalSize()-1)
	row := tv.rows.IndexAt(y)
	return hitSpan(tv.rowSpans(row), max(col, 0))
}

// rowAtLine maps a body line to its row and the line within that row.
func (tv *TokenView) rowAtLine(line int) (row, sub int, ok bool) {
	if len(tv.items) == 0 {
		return 0, 0, false
	}
	y := tv.offset + line
	if y < 0 || y >= tv.rows.TotalSize() {
		return 0, 0, false
	}
	row = tv.rows.IndexAt(y)
	if row < 0 {
		return 0, 0, false
	}
	return row, y - tv.rows.OffsetFor(row), true
}

// rowSpans lays out the token columns of one row the same way renderRow
// draws them.
func (tv *TokenView) rowSpans(row int) []cellSpan {
	switch tv.mode {
	case ViewGrid:
		start, end := tv.grid.RowCells(row)
		spans := make([]cellSpan, 0, max(end-start+1, 0))
		for i := start; i <= end; i++ {
			x := (i - start) * (GridCellWidth + GridGap)
			spans = append(spans, cellSpan{index: i, x0: x, x1: x + GridCellWidth})
		}
		return spans
	case ViewList:
		if row < 0 || row >= len(tv.items) {
			return nil
		}
		return []cellSpan{{index: row, x0: 0, x1: tv.innerWidth()}}
	default:
		lines := tv.engine.Lines()
		if row < 0 || row >= len(lines) {
			return nil
		}
		m := tv.engine.Metrics()
		spans := make([]cellSpan, 0, len(lines[row].Tokens))
		x := 0
		for _, it := range lines[row].Tokens {
			w := layout.TokenWidth(it, m)
			spans = append(spans, cellSpan{index: it.Index, x0: x, x1: x + w})
			x += w + m.TokenGap
		}
		return spans
	}
}

func hitSpan(spans []cellSpan, col int) int {
	if len(spans) == 0 {
		return -1
	}
	idx := spans[0].index
	for _, sp := range spans {
		if col < sp.x0 {
			break
		}
		idx = sp.index
	}
	return idx
}

// selectionView paints the selected chips of a rendered body using
// ultraviolet. Only the first line of inline and list rows carries chips;
// grid rows are painted on both lines.
func (tv *TokenView) selectionView(body string, width, height int) string {
	start, end := tv.Selection()
	if start < 0 || width <= 0 || height <= 0 {
		return body
	}

	area := uv.Rect(0, 0, width, height)
	scr := uv.NewScreenBuffer(area.Dx(), area.Dy())
	uv.NewStyledString(body).Draw(scr, area)

	var selBg, selFg color.Color
	if tv.sel.flashFrame == 0 {
		selBg = TokenSelectionFlashStyle.GetBackground()
		selFg = TokenSelectionFlashStyle.GetForeground()
	} else {
		selBg = TokenSelectionStyle.GetBackground()
		selFg = TokenSelectionStyle.GetForeground()
	}

	for y := 0; y < height; y++ {
		row, sub, ok := tv.rowAtLine(y)
		if !ok {
			break
		}
		if sub > 0 && tv.mode != ViewGrid {
			continue
		}
		for _, sp := range tv.rowSpans(row) {
			if sp.index < start || sp.index > end {
				continue
			}
			for x := sp.x0; x < sp.x1 && x < width; x++ {
				cell := scr.CellAt(x, y)
				if cell != nil {
					cell = cell.Clone()
					cell.Style.Bg = selBg
					cell.Style.Fg = selFg
					scr.SetCell(x, y, cell)
				}
			}
		}
	}

	return scr.Render()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
