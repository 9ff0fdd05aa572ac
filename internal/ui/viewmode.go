package ui

import (
	"strings"

	"github.com/zhubert/tokenlens/internal/virtual"
)

// ViewMode selects how the token view lays tokens out. The app owns the
// current mode and passes it down.
type ViewMode int

const (
	// ViewInline flows chips into lines like wrapped text.
	ViewInline ViewMode = iota
	// ViewGrid shows fixed-size cells.
	ViewGrid
	// ViewList shows one token per row with its details.
	ViewList
)

// ViewModes lists every mode in cycle order.
var ViewModes = []ViewMode{ViewInline, ViewGrid, ViewList}

func (v ViewMode) String() string {
	switch v {
	case ViewGrid:
		return "grid"
	case ViewList:
		return "list"
	default:
		return "inline"
	}
}

// ParseViewMode maps a config value to a mode, defaulting to inline.
func ParseViewMode(s string) ViewMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grid":
		return ViewGrid
	case "list":
		return ViewList
	default:
		return ViewInline
	}
}

// Next cycles to the following mode.
func (v ViewMode) Next() ViewMode {
	return ViewModes[(int(v)+1)%len(ViewModes)]
}

// Overscan is the number of extra rows realized around the viewport.
func (v ViewMode) Overscan() int {
	switch v {
	case ViewList:
		return virtual.OverscanList
	case ViewGrid:
		return virtual.OverscanGrid
	default:
		return virtual.OverscanInline
	}
}
