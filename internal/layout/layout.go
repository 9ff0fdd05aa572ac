// Package layout breaks a flat run of token chips into lines that fit a
// container width. It does no rendering; widths come from Metrics alone.
package layout

import (
	"github.com/zhubert/tokenlens/internal/tokens"
)

// LineInfo is one visual line of chips. StartIndex and EndIndex are the
// inclusive token indices it covers.
type LineInfo struct {
	Tokens     []tokens.Item
	StartIndex int
	EndIndex   int
	Height     int
	Width      int
}

// Count is the number of tokens on the line.
func (l LineInfo) Count() int {
	return l.EndIndex - l.StartIndex + 1
}

// Layout greedily packs items into lines no wider than width. The first chip
// on a line is always accepted, so a chip wider than the container sits alone
// on its own line. Lines partition items in order.
func Layout(items []tokens.Item, width int, m Metrics) []LineInfo {
	if len(items) == 0 {
		return nil
	}

	height := max(m.LineHeight, 1)
	var (
		lines []LineInfo
		start int
		cur   int
	)
	for i, it := range items {
		w := TokenWidth(it, m)
		if i == start {
			cur = w
			continue
		}
		if cur+m.TokenGap+w <= width {
			cur += m.TokenGap + w
			continue
		}
		lines = append(lines, LineInfo{
			Tokens:     items[start:i:i],
			StartIndex: start,
			EndIndex:   i - 1,
			Height:     height,
			Width:      cur,
		})
		start = i
		cur = w
	}
	lines = append(lines, LineInfo{
		Tokens:     items[start:len(items):len(items)],
		StartIndex: start,
		EndIndex:   len(items) - 1,
		Height:     height,
		Width:      cur,
	})
	return lines
}

// Engine keeps the current lines for a token set and width and recomputes
// them in full whenever either changes.
type Engine struct {
	metrics Metrics
	items   []tokens.Item
	width   int
	lines   []LineInfo
	passes  int
}

// NewEngine creates an engine with the given metrics.
func NewEngine(m Metrics) *Engine {
	return &Engine{metrics: m}
}

// SetItems replaces the token set and relayouts.
func (e *Engine) SetItems(items []tokens.Item) {
	e.items = items
	e.relayout()
}

// Resize changes the container width. It reports whether a relayout ran.
func (e *Engine) Resize(width int) bool {
	if width == e.width {
		return false
	}
	e.width = width
	e.relayout()
	return true
}

// SetMetrics replaces the metrics and relayouts.
func (e *Engine) SetMetrics(m Metrics) {
	e.metrics = m
	e.relayout()
}

func (e *Engine) relayout() {
	e.lines = Layout(e.items, e.width, e.metrics)
	e.passes++
}

// Lines returns the current lines.
func (e *Engine) Lines() []LineInfo {
	return e.lines
}

// Items returns the current token set.
func (e *Engine) Items() []tokens.Item {
	return e.items
}

// Width returns the container width of the current layout.
func (e *Engine) Width() int {
	return e.width
}

// Metrics returns the metrics in use.
func (e *Engine) Metrics() Metrics {
	return e.metrics
}

// Passes counts full relayouts.
func (e *Engine) Passes() int {
	return e.passes
}

// Sizes returns the height of every line, for the virtual window.
func (e *Engine) Sizes() []int {
	sizes := make([]int, len(e.lines))
	for i, l := range e.lines {
		sizes[i] = l.Height
	}
	return sizes
}

// LineOf returns the index of the line holding token index, or -1.
func (e *Engine) LineOf(index int) int {
	lo, hi := 0, len(e.lines)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		l := e.lines[mid]
		switch {
		case index < l.StartIndex:
			hi = mid - 1
		case index > l.EndIndex:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}
