package ui

import (
	"sync"

	"github.com/zhubert/tokenlens/internal/logger"
)

// ViewContext holds centralized layout calculations and provides debug logging.
// All size calculations should go through this to avoid duplication.
type ViewContext struct {
	// Terminal dimensions
	TerminalWidth  int
	TerminalHeight int

	// Calculated dimensions
	HeaderHeight  int
	FooterHeight  int
	ContentHeight int

	// EditorHeight spans the full width above the token and stats panels.
	EditorHeight int
	// TokensHeight and TokensWidth size the token panel, borders included.
	TokensHeight int
	TokensWidth  int
	// StatsWidth is zero when the terminal is too narrow for the stats panel.
	StatsWidth int

	mu sync.Mutex
}

// Global view context instance
var ctx *ViewContext
var ctxOnce sync.Once

// GetViewContext returns the singleton ViewContext instance
func GetViewContext() *ViewContext {
	ctxOnce.Do(func() {
		ctx = &ViewContext{
			HeaderHeight: HeaderHeight,
			FooterHeight: FooterHeight,
		}
		logger.WithComponent("ui").Debug("ViewContext initialized")
	})
	return ctx
}

// UpdateTerminalSize recalculates all dimensions when terminal size changes.
// It is called from the main event loop on every resize.
func (v *ViewContext) UpdateTerminalSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if height < MinTerminalHeight {
		height = MinTerminalHeight
	}

	v.TerminalWidth = width
	v.TerminalHeight = height
	v.HeaderHeight = HeaderHeight
	v.FooterHeight = FooterHeight

	// Content area is everything between header and footer
	v.ContentHeight = height - v.HeaderHeight - v.FooterHeight

	v.EditorHeight = max(v.ContentHeight/EditorHeightRatio, MinEditorHeight)
	v.TokensHeight = v.ContentHeight - v.EditorHeight

	v.StatsWidth = 0
	if width >= StatsMinTerminalWidth {
		v.StatsWidth = StatsWidth
	}
	v.TokensWidth = width - v.StatsWidth

	logger.WithComponent("ui").Debug("Terminal size updated",
		"width", width,
		"height", height,
		"contentHeight", v.ContentHeight,
		"editorHeight", v.EditorHeight,
		"tokensHeight", v.TokensHeight,
		"tokensWidth", v.TokensWidth,
		"statsWidth", v.StatsWidth,
	)
}

// InnerWidth returns the usable width inside a panel with borders
func (v *ViewContext) InnerWidth(panelWidth int) int {
	return max(panelWidth-BorderSize, 0)
}

// InnerHeight returns the usable height inside a panel with borders
func (v *ViewContext) InnerHeight(panelHeight int) int {
	return max(panelHeight-BorderSize, 0)
}
