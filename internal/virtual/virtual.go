// Package virtual computes which rows of a long scrollable list intersect the
// viewport, so renderers only build those rows. Everything here is a pure
// function of scroll offset, viewport size and row sizes; the same inputs
// always realize the same rows.
package virtual

import (
	"sort"
)

// Overscan per view variant, in rows.
const (
	OverscanList   = 10
	OverscanGrid   = 5
	OverscanInline = 5
)

// Item is one realized row.
type Item struct {
	Index int
	Start int // absolute offset of the row's first line
	Size  int
}

// Range is the set of realized rows. Start and End include overscan and are
// inclusive; VisibleStart and VisibleEnd are the rows that actually intersect
// the viewport. An empty range has End < Start.
type Range struct {
	Start        int
	End          int
	VisibleStart int
	VisibleEnd   int
	Items        []Item
}

// Len is the number of realized rows.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Empty reports whether nothing is realized.
func (r Range) Empty() bool {
	return r.Len() == 0
}

var emptyRange = Range{Start: 0, End: -1, VisibleStart: 0, VisibleEnd: -1}

// ComputeVisibleRange realizes the rows overlapping
// [offset, offset+viewport) plus overscan rows on each side.
func ComputeVisibleRange(offset, viewport int, sizes []int, overscan int) Range {
	return NewList(sizes).Range(offset, viewport, overscan)
}

// List is a row set with precomputed offsets.
type List struct {
	sizes   []int
	offsets []int
	total   int
}

// NewList builds a list from per-row sizes. Negative sizes count as zero.
func NewList(sizes []int) *List {
	l := &List{
		sizes:   make([]int, len(sizes)),
		offsets: make([]int, len(sizes)),
	}
	for i, s := range sizes {
		s = max(s, 0)
		l.sizes[i] = s
		l.offsets[i] = l.total
		l.total += s
	}
	return l
}

// NewFixedList builds a list of count rows that are all size tall.
func NewFixedList(count, size int) *List {
	sizes := make([]int, max(count, 0))
	for i := range sizes {
		sizes[i] = size
	}
	return NewList(sizes)
}

// Len returns the number of rows.
func (l *List) Len() int {
	return len(l.sizes)
}

// TotalSize is the sum of all row sizes, regardless of what is realized.
func (l *List) TotalSize() int {
	return l.total
}

// OffsetFor returns the offset of row index, clamped to the list.
func (l *List) OffsetFor(index int) int {
	if len(l.offsets) == 0 || index <= 0 {
		return 0
	}
	if index >= len(l.offsets) {
		return l.total
	}
	return l.offsets[index]
}

// SizeOf returns the size of row index, or 0 when out of range.
func (l *List) SizeOf(index int) int {
	if index < 0 || index >= len(l.sizes) {
		return 0
	}
	return l.sizes[index]
}

// IndexAt returns the row containing offset, clamped to the list. It returns
// -1 for an empty list.
func (l *List) IndexAt(offset int) int {
	n := len(l.sizes)
	if n == 0 {
		return -1
	}
	i := sort.Search(n, func(i int) bool {
		return l.offsets[i]+l.sizes[i] > offset
	})
	return min(i, n-1)
}

// ClampOffset keeps offset within [0, TotalSize-viewport].
func (l *List) ClampOffset(offset, viewport int) int {
	return min(max(offset, 0), max(l.total-viewport, 0))
}

// Range realizes the rows for a scroll position.
func (l *List) Range(offset, viewport, overscan int) Range {
	n := len(l.sizes)
	if n == 0 || viewport <= 0 || l.total == 0 {
		return emptyRange
	}
	offset = min(max(offset, 0), l.total-1)
	overscan = max(overscan, 0)

	first := l.IndexAt(offset)
	last := l.IndexAt(offset + viewport - 1)

	r := Range{
		Start:        max(first-overscan, 0),
		End:          min(last+overscan, n-1),
		VisibleStart: first,
		VisibleEnd:   last,
	}
	r.Items = make([]Item, 0, r.End-r.Start+1)
	for i := r.Start; i <= r.End; i++ {
		r.Items = append(r.Items, Item{Index: i, Start: l.offsets[i], Size: l.sizes[i]})
	}
	return r
}

// IndicatorRange turns the first and last shown token indices into the
// 1-based "X–Y of N" bounds, with Y clamped to total.
func IndicatorRange(first, last, total int) (x, y int) {
	if total <= 0 || last < first {
		return 0, 0
	}
	x = min(max(first, 0)+1, total)
	y = min(last+1, total)
	return x, y
}
