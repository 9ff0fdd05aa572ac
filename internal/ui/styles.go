package ui

import (
	"charm.land/lipgloss/v2"

	"github.com/zhubert/tokenlens/internal/tokens"
)

// Color palette - Purple + Cyan/Teal theme
var (
	ColorPrimary     = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary   = lipgloss.Color("#06B6D4") // Cyan
	ColorMuted       = lipgloss.Color("#6B7280") // Gray
	ColorBorder      = lipgloss.Color("#374151") // Dark gray
	ColorBorderFocus = lipgloss.Color("#7C3AED") // Purple when focused
	ColorBg          = lipgloss.Color("#1F2937") // Dark background
	ColorBgSelected  = lipgloss.Color("#7C3AED")
	ColorText        = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted   = lipgloss.Color("#B0B8C4") // Muted text
	ColorTextInverse = lipgloss.Color("#1F2937") // Dark text for light backgrounds
	ColorWarning     = lipgloss.Color("#F59E0B") // Amber
	ColorInfo        = lipgloss.Color("#06B6D4") // Cyan
	ColorError       = lipgloss.Color("#EF4444") // Red for errors
	ColorSuccess     = lipgloss.Color("#10B981") // Green for success
)

// Header and footer styles
var (
	HeaderStyle     lipgloss.Style
	FooterStyle     lipgloss.Style
	FooterKeyStyle  lipgloss.Style
	FooterDescStyle lipgloss.Style
)

// Panel styles
var (
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	PanelTitleStyle   lipgloss.Style
)

// Token view styles. TokenStyles and TokenIDStyles are indexed by
// tokens.ColorKey.
var (
	TokenStyles    [tokens.PaletteSize]lipgloss.Style
	TokenIDStyles  [tokens.PaletteSize]lipgloss.Style
	ListIndexStyle lipgloss.Style
	ListIDStyle    lipgloss.Style
	IndicatorStyle lipgloss.Style

	// TokenSelectionFlashStyle replaces TokenSelectionStyle briefly after a copy
	TokenSelectionStyle      lipgloss.Style
	TokenSelectionFlashStyle lipgloss.Style
)

// Stats styles
var (
	StatsLabelStyle lipgloss.Style
	StatsValueStyle lipgloss.Style
)

// Modal styles
var (
	ModalStyle        lipgloss.Style
	ModalTitleStyle   lipgloss.Style
	ModalHelpStyle    lipgloss.Style
	ItemStyle         lipgloss.Style
	SelectedItemStyle lipgloss.Style
)

// Status styles
var (
	StatusLoadingStyle lipgloss.Style
	StatusErrorStyle   lipgloss.Style
	ErrorBoxStyle      lipgloss.Style
)

func init() {
	regenerateStyles()
	RefreshModalStyles()
}

// TokenStyle returns the chip style for a palette key.
func TokenStyle(colorKey int) lipgloss.Style {
	return TokenStyles[tokens.ColorKey(colorKey)]
}

// TokenIDStyle returns the id style for a palette key.
func TokenIDStyle(colorKey int) lipgloss.Style {
	return TokenIDStyles[tokens.ColorKey(colorKey)]
}
