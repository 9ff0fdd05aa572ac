// Package ui provides the user interface components for the tokenlens TUI.
//
// # Overview
//
// The ui package implements the visual components of tokenlens using the
// Bubble Tea framework and Lipgloss styling library. Components are plain
// structs with SetSize/View methods; the app package owns the Bubble Tea
// model and routes messages to them.
//
// # Layout System
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────────────────────────────────────────┤
//	│ Editor (1/3 of content height, min 5)               │
//	├───────────────────────────────────┬─────────────────┤
//	│                                   │                 │
//	│   Token view                      │   Stats         │
//	│   (inline, grid or list)          │   (>= 90 cols)  │
//	│                                   │                 │
//	├───────────────────────────────────┴─────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext: Singleton that manages centralized layout calculations.
// All size calculations should go through ViewContext to ensure consistency.
//
// Editor: textarea for typed or pasted text, or a read-only preview of a
// loaded file.
//
// TokenView: virtualized token display. Only rows inside the visible window
// plus overscan are rendered; inline rows come from layout.Engine, grid and
// list rows from fixed-size row math in the virtual package.
//
// StatsPanel: counts, context usage, input cost and chunk progress.
//
// Modal: wraps a modals.ModalState (help, model picker, open file, settings)
// and centers it over the screen.
//
// # Styles
//
// Styles live in styles.go and are regenerated from the active Theme by
// SetTheme. Each theme carries its own token palette.
package ui
