// Package ui provides constants for layout calculations and configuration.
package ui

import "time"

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// MinTerminalWidth and MinTerminalHeight clamp tiny terminals so layout
	// math never goes negative.
	MinTerminalWidth  = 40
	MinTerminalHeight = 12

	// EditorHeightRatio is the denominator for the editor panel height (1/3 of content)
	EditorHeightRatio = 3

	// MinEditorHeight is the smallest editor panel, borders included
	MinEditorHeight = 5

	// StatsWidth is the width of the stats panel, borders included
	StatsWidth = 34

	// StatsMinTerminalWidth hides the stats panel below this width
	StatsMinTerminalWidth = 90

	// TitleHeight is the height of panel titles
	TitleHeight = 1
)

// Token view sizing
const (
	// GridCellWidth is the fixed width of one grid cell, in cells
	GridCellWidth = 14

	// GridGap is the horizontal space between grid cells
	GridGap = 1

	// GridRowHeight is the number of lines per grid row (label, then id)
	GridRowHeight = 2

	// ListRowHeight is the number of lines per detailed-list row
	ListRowHeight = 1
)

// Modal dimensions
const (
	// ModalWidth is the default width of modals
	ModalWidth = 60

	// ModalInputCharLimit is the character limit for modal text inputs
	ModalInputCharLimit = 1024

	// ModalInputWidth is the width of modal text inputs
	ModalInputWidth = 50

	// HelpModalMaxVisible is the number of rows shown in the help list
	HelpModalMaxVisible = 18
)

// Flash messages
const (
	// DefaultFlashDuration is how long a flash stays in the footer
	DefaultFlashDuration = 4 * time.Second

	// FlashTickInterval is how often expired flashes are checked
	FlashTickInterval = 500 * time.Millisecond
)
