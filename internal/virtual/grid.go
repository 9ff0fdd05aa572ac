package virtual

// Grid lays fixed-size cells out in rows that fill a width.
type Grid struct {
	Count     int // cells
	CellWidth int
	Gap       int
	Columns   int
	Rows      int
}

// NewGrid fits as many columns of cellWidth plus gap into width as possible,
// and at least one.
func NewGrid(count, width, cellWidth, gap int) Grid {
	cols := 1
	if cellWidth > 0 && width > cellWidth {
		cols = max((width+gap)/(cellWidth+gap), 1)
	}
	rows := 0
	if count > 0 {
		rows = (count + cols - 1) / cols
	}
	return Grid{Count: count, CellWidth: cellWidth, Gap: gap, Columns: cols, Rows: rows}
}

// RowCells returns the inclusive cell range of row.
func (g Grid) RowCells(row int) (start, end int) {
	if row < 0 || row >= g.Rows {
		return 0, -1
	}
	start = row * g.Columns
	end = min(start+g.Columns, g.Count) - 1
	return start, end
}

// RowOf returns the row holding cell index.
func (g Grid) RowOf(index int) int {
	if g.Columns <= 0 || index < 0 {
		return 0
	}
	return min(index/g.Columns, max(g.Rows-1, 0))
}

// List returns the grid rows as a virtual list of rowHeight rows.
func (g Grid) List(rowHeight int) *List {
	return NewFixedList(g.Rows, rowHeight)
}
