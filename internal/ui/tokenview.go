package ui

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/zhubert/tokenlens/internal/layout"
	"github.com/zhubert/tokenlens/internal/tokens"
	"github.com/zhubert/tokenlens/internal/virtual"
)

// TokenView renders a tokenization result in one of three virtualized
// variants. Only rows inside the window (viewport plus overscan) are built,
// and built rows are kept until they leave the window.
type TokenView struct {
	mode    ViewMode
	width   int
	height  int
	focused bool
	loading bool

	items  []tokens.Item
	engine *layout.Engine
	grid   virtual.Grid
	rows   *virtual.List

	offset   int
	window   virtual.Range
	realized map[int][]string
	built    int

	sel tokenSelection
}

// NewTokenView creates an empty inline token view.
func NewTokenView(m layout.Metrics) *TokenView {
	tv := &TokenView{
		engine:   layout.NewEngine(m),
		realized: make(map[int][]string),
		sel:      newTokenSelection(),
	}
	tv.rebuild()
	return tv
}

// SetSize sets the panel size, borders included. Grid and list rows follow
// the new width at once; inline lines wait for Relayout, except for the very
// first size.
func (tv *TokenView) SetSize(width, height int) {
	anchor := tv.FirstVisibleToken()
	tv.width = width
	tv.height = height
	if tv.engine.Width() == 0 {
		tv.engine.Resize(tv.innerWidth())
	}
	tv.rebuild()
	tv.scrollToToken(anchor)
}

// Relayout recomputes inline lines for the current width. It reports whether
// the lines changed.
func (tv *TokenView) Relayout() bool {
	anchor := tv.FirstVisibleToken()
	if !tv.engine.Resize(tv.innerWidth()) {
		return false
	}
	if tv.mode == ViewInline {
		tv.rebuild()
		tv.scrollToToken(anchor)
	}
	return true
}

// PendingRelayout reports whether the inline lines were built for a
// different width than the panel has now.
func (tv *TokenView) PendingRelayout() bool {
	return tv.engine.Width() != tv.innerWidth()
}

// SetItems replaces the token set and clears any selection. The scroll
// offset is kept when it still fits.
func (tv *TokenView) SetItems(items []tokens.Item) {
	tv.ClearSelection()
	tv.items = items
	tv.engine.SetItems(items)
	tv.rebuild()
}

// SetMetrics swaps the chip metrics and relayouts.
func (tv *TokenView) SetMetrics(m layout.Metrics) {
	tv.engine.SetMetrics(m)
	tv.rebuild()
}

// SetMode switches the layout variant. The caller restores the offset for
// the new mode with SetOffset.
func (tv *TokenView) SetMode(mode ViewMode) {
	if mode == tv.mode {
		return
	}
	tv.mode = mode
	tv.rebuild()
}

// Mode returns the active variant.
func (tv *TokenView) Mode() ViewMode {
	return tv.mode
}

// SetFocused sets the focus state
func (tv *TokenView) SetFocused(focused bool) {
	tv.focused = focused
}

// IsFocused reports the focus state
func (tv *TokenView) IsFocused() bool {
	return tv.focused
}

// SetLoading marks the view as waiting for a result.
func (tv *TokenView) SetLoading(loading bool) {
	tv.loading = loading
}

// Invalidate drops built rows, e.g. after a theme change.
func (tv *TokenView) Invalidate() {
	clear(tv.realized)
}

// Len returns the number of tokens.
func (tv *TokenView) Len() int {
	return len(tv.items)
}

// Lines returns the current inline layout.
func (tv *TokenView) Lines() []layout.LineInfo {
	return tv.engine.Lines()
}

// RowCount returns the number of rows in the active variant.
func (tv *TokenView) RowCount() int {
	return tv.rows.Len()
}

// TotalHeight is the scrollable height of the active variant.
func (tv *TokenView) TotalHeight() int {
	return tv.rows.TotalSize()
}

// Realized returns how many rows are currently built.
func (tv *TokenView) Realized() int {
	return len(tv.realized)
}

// Built counts rows rendered since the view was created.
func (tv *TokenView) Built() int {
	return tv.built
}

// Offset returns the scroll offset in lines.
func (tv *TokenView) Offset() int {
	return tv.offset
}

// SetOffset scrolls to offset, clamped to the content.
func (tv *TokenView) SetOffset(offset int) {
	tv.offset = tv.rows.ClampOffset(offset, tv.viewportHeight())
}

// ScrollRows scrolls by n rows of the active variant.
func (tv *TokenView) ScrollRows(n int) {
	tv.SetOffset(tv.offset + n*tv.rowStep())
}

// PageDown scrolls one viewport down.
func (tv *TokenView) PageDown() {
	tv.SetOffset(tv.offset + max(tv.viewportHeight()-tv.rowStep(), 1))
}

// PageUp scrolls one viewport up.
func (tv *TokenView) PageUp() {
	tv.SetOffset(tv.offset - max(tv.viewportHeight()-tv.rowStep(), 1))
}

// ScrollToTop jumps to the first row.
func (tv *TokenView) ScrollToTop() {
	tv.SetOffset(0)
}

// ScrollToBottom jumps to the last row.
func (tv *TokenView) ScrollToBottom() {
	tv.SetOffset(tv.rows.TotalSize())
}

// FirstVisibleToken returns the index of the first token in the top row, or
// -1 when there are no tokens.
func (tv *TokenView) FirstVisibleToken() int {
	if len(tv.items) == 0 || tv.rows == nil || tv.rows.Len() == 0 {
		return -1
	}
	first, _ := tv.rowSpan(tv.rows.IndexAt(tv.offset))
	return first
}

// Window returns the realized rows for the current offset.
func (tv *TokenView) Window() virtual.Range {
	return tv.rows.Range(tv.offset, tv.viewportHeight(), tv.mode.Overscan())
}

// VisibleTokens returns the 1-based token bounds of the rows inside the
// viewport, clamped to the token count. Overscan rows are realized but not
// counted, so the range matches what is on screen.
func (tv *TokenView) VisibleTokens() (x, y int) {
	w := tv.Window()
	if w.Empty() {
		return 0, 0
	}
	first, _ := tv.rowSpan(w.VisibleStart)
	_, last := tv.rowSpan(w.VisibleEnd)
	return virtual.IndicatorRange(first, last, len(tv.items))
}

// Indicator is the "X–Y of N" scroll position text.
func (tv *TokenView) Indicator() string {
	x, y := tv.VisibleTokens()
	if x == 0 {
		return ""
	}
	return fmt.Sprintf("%s–%s of %s",
		humanize.Comma(int64(x)), humanize.Comma(int64(y)), humanize.Comma(int64(len(tv.items))))
}

// View renders the panel. Only rows in the window are built.
func (tv *TokenView) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if tv.focused {
		style = PanelFocusedStyle
	}

	inner := ctx.InnerWidth(tv.width)
	body := tv.body(inner)
	if len(tv.items) > 0 {
		body = tv.selectionView(body, inner, tv.viewportHeight())
	}
	content := tv.titleBar(inner) + "\n" + body

	// In lipgloss v2, Width/Height include borders, so pass full panel size
	return style.Width(tv.width).Height(tv.height).Render(content)
}

func (tv *TokenView) titleBar(inner int) string {
	left := PanelTitleStyle.Render("Tokens") + StatsLabelStyle.Render(" · "+tv.mode.String())
	if tv.loading {
		left += StatusLoadingStyle.Render(" tokenizing…")
	}
	right := IndicatorStyle.Render(tv.Indicator())

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left, inner, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

func (tv *TokenView) body(inner int) string {
	vh := tv.viewportHeight()
	if len(tv.items) == 0 {
		msg := "No tokens yet. Type in the editor or open a file with ctrl+o."
		if tv.loading {
			msg = "Tokenizing…"
		}
		return lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Width(inner).
			Render(msg)
	}

	tv.realize()

	lines := make([]string, 0, vh)
	for row := tv.window.VisibleStart; row <= tv.window.VisibleEnd && len(lines) < vh; row++ {
		rowLines := tv.realized[row]
		skip := 0
		if row == tv.window.VisibleStart {
			skip = min(max(tv.offset-tv.rows.OffsetFor(row), 0), len(rowLines))
		}
		for _, l := range rowLines[skip:] {
			if len(lines) == vh {
				break
			}
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// realize builds the rows entering the window and drops rows that left it.
func (tv *TokenView) realize() {
	tv.window = tv.Window()
	for idx := range tv.realized {
		if idx < tv.window.Start || idx > tv.window.End {
			delete(tv.realized, idx)
		}
	}
	inner := tv.innerWidth()
	for _, it := range tv.window.Items {
		if _, ok := tv.realized[it.Index]; ok {
			continue
		}
		tv.realized[it.Index] = tv.renderRow(it.Index, it.Size, inner)
		tv.built++
	}
}

func (tv *TokenView) renderRow(row, size, inner int) []string {
	var lines []string
	switch tv.mode {
	case ViewGrid:
		lines = tv.renderGridRow(row, inner)
	case ViewList:
		lines = []string{tv.renderListRow(row, inner)}
	default:
		lines = []string{tv.renderInlineLine(row, inner)}
	}
	for len(lines) < size {
		lines = append(lines, "")
	}
	return lines[:size]
}

func (tv *TokenView) renderInlineLine(row, inner int) string {
	line := tv.engine.Lines()[row]
	m := tv.engine.Metrics()
	chips := make([]string, len(line.Tokens))
	for i, it := range line.Tokens {
		chips[i] = RenderChip(it, m)
	}
	return ansi.Truncate(strings.Join(chips, strings.Repeat(" ", m.TokenGap)), inner, "…")
}

func (tv *TokenView) renderGridRow(row, inner int) []string {
	start, end := tv.grid.RowCells(row)
	cell := GridCellWidth - 2
	top := make([]string, 0, end-start+1)
	bottom := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		it := tv.items[i]
		top = append(top, TokenStyle(it.ColorKey).Render(" "+fitCells(it.Label(), cell)+" "))
		bottom = append(bottom, TokenIDStyle(it.ColorKey).Render(" "+fitRight(strconv.Itoa(it.ID), cell)+" "))
	}
	gap := strings.Repeat(" ", GridGap)
	return []string{
		ansi.Truncate(strings.Join(top, gap), inner, ""),
		ansi.Truncate(strings.Join(bottom, gap), inner, ""),
	}
}

func (tv *TokenView) renderListRow(row, inner int) string {
	it := tv.items[row]
	idxWidth := layout.DigitCount(max(len(tv.items)-1, 0))
	parts := []string{
		ListIndexStyle.Render(fmt.Sprintf("%*d", idxWidth, it.Index)),
		ListIDStyle.Render(fmt.Sprintf("%7d", it.ID)),
		TokenStyle(it.ColorKey).Render(" " + fitCells(it.Label(), tokens.MaxDisplayChars) + " "),
	}
	if it.HasText() {
		parts = append(parts, ListIndexStyle.Render(humanize.Bytes(uint64(len(it.Text)))))
	}
	return ansi.Truncate(strings.Join(parts, "  "), inner, "…")
}

// RenderChip renders one inline chip. Its width equals layout.TokenWidth
// for the same metrics.
func RenderChip(it tokens.Item, m layout.Metrics) string {
	pad := strings.Repeat(" ", m.Padding)
	style := TokenStyle(it.ColorKey)
	id := strconv.Itoa(it.ID)
	if !it.HasText() {
		return style.Render(pad + "[" + id + "]" + pad)
	}
	text := fitCells(it.DisplayText, m.TextCells(it.DisplayText))
	return style.Render(pad+text+strings.Repeat(" ", m.FieldGap)) + TokenIDStyle(it.ColorKey).Render(id+pad)
}

// fitCells truncates or pads s to exactly cells columns.
func fitCells(s string, cells int) string {
	t := ansi.Truncate(s, cells, "…")
	if w := ansi.StringWidth(t); w < cells {
		t += strings.Repeat(" ", cells-w)
	}
	return t
}

// fitRight right-aligns s in cells columns.
func fitRight(s string, cells int) string {
	t := ansi.Truncate(s, cells, "…")
	if w := ansi.StringWidth(t); w < cells {
		t = strings.Repeat(" ", cells-w) + t
	}
	return t
}

func (tv *TokenView) rebuild() {
	switch tv.mode {
	case ViewGrid:
		tv.grid = virtual.NewGrid(len(tv.items), tv.innerWidth(), GridCellWidth, GridGap)
		tv.rows = tv.grid.List(GridRowHeight)
	case ViewList:
		tv.rows = virtual.NewFixedList(len(tv.items), ListRowHeight)
	default:
		tv.rows = virtual.NewList(tv.engine.Sizes())
	}
	clear(tv.realized)
	tv.offset = tv.rows.ClampOffset(tv.offset, tv.viewportHeight())
}

func (tv *TokenView) rowSpan(row int) (first, last int) {
	switch tv.mode {
	case ViewGrid:
		return tv.grid.RowCells(row)
	case ViewList:
		return row, row
	default:
		lines := tv.engine.Lines()
		if row < 0 || row >= len(lines) {
			return 0, -1
		}
		return lines[row].StartIndex, lines[row].EndIndex
	}
}

func (tv *TokenView) rowOf(index int) int {
	switch tv.mode {
	case ViewGrid:
		return tv.grid.RowOf(index)
	case ViewList:
		return index
	default:
		return max(tv.engine.LineOf(index), 0)
	}
}

func (tv *TokenView) scrollToToken(index int) {
	if index < 0 {
		return
	}
	tv.SetOffset(tv.rows.OffsetFor(tv.rowOf(index)))
}

func (tv *TokenView) rowStep() int {
	switch tv.mode {
	case ViewGrid:
		return GridRowHeight
	case ViewList:
		return ListRowHeight
	default:
		return max(tv.engine.Metrics().LineHeight, 1)
	}
}

func (tv *TokenView) innerWidth() int {
	return max(tv.width-BorderSize, 0)
}

func (tv *TokenView) viewportHeight() int {
	return max(tv.height-BorderSize-TitleHeight, 0)
}
