package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tokenlens/internal/config"
	"github.com/zhubert/tokenlens/internal/keys"
	"github.com/zhubert/tokenlens/internal/ui"
	"github.com/zhubert/tokenlens/internal/ui/modals"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for all shortcuts in the application.
type Shortcut struct {
	Key            string                              // The key binding (e.g., "y", "ctrl+t")
	DisplayKey     string                              // Display name in help; defaults to Key
	Description    string                              // Human-readable description
	Category       string                              // Section for help modal grouping
	RequiresTokens bool                                // Only when the token view has focus
	Handler        func(m *Model) (tea.Model, tea.Cmd) // Action to perform
	Condition      func(m *Model) bool                 // Optional extra condition
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryNavigation = "Navigation"
	CategoryInput      = "Input"
	CategoryTokens     = "Tokens (when focused)"
	CategoryGeneral    = "General"
)

// categoryOrder defines the display order of categories in the help modal
var categoryOrder = []string{
	CategoryNavigation,
	CategoryInput,
	CategoryTokens,
	CategoryGeneral,
}

// ShortcutRegistry is the central registry of all keyboard shortcuts.
// Entries appear in the help modal and can be run from it.
var ShortcutRegistry = []Shortcut{
	// Navigation
	{
		Key:         keys.Tab,
		DisplayKey:  "Tab",
		Description: "Switch between editor and tokens",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleFocus,
	},
	{
		Key:         keys.CtrlT,
		Description: "Cycle view: inline, grid, list",
		Category:    CategoryNavigation,
		Handler:     shortcutCycleView,
	},

	// Input
	{
		Key:         keys.CtrlP,
		Description: "Choose model or encoding",
		Category:    CategoryInput,
		Handler:     shortcutModelPicker,
	},
	{
		Key:         keys.CtrlO,
		Description: "Open a file",
		Category:    CategoryInput,
		Handler:     shortcutOpenFile,
	},
	{
		Key:         keys.CtrlL,
		Description: "Close the loaded file",
		Category:    CategoryInput,
		Handler:     shortcutClearFile,
		Condition:   func(m *Model) bool { return m.editor.HasFile() },
	},
	{
		Key:         keys.CtrlE,
		Description: "Toggle chat transcript mode",
		Category:    CategoryInput,
		Handler:     shortcutToggleChat,
	},

	// Tokens
	{
		Key:            "y",
		Description:    "Copy token ids (selection or all)",
		Category:       CategoryTokens,
		RequiresTokens: true,
		Handler:        shortcutCopyIDs,
	},
	{
		Key:            "Y",
		Description:    "Copy token texts (selection or all)",
		Category:       CategoryTokens,
		RequiresTokens: true,
		Handler:        shortcutCopyTexts,
	},
	{
		Key:            "t",
		Description:    "Next theme",
		Category:       CategoryTokens,
		RequiresTokens: true,
		Handler:        shortcutNextTheme,
	},

	// General
	// Note: help is handled specially in ExecuteShortcut to avoid init cycle
	{
		Key:         keys.CtrlS,
		Description: "Settings",
		Category:    CategoryGeneral,
		Handler:     shortcutSettings,
	},
	{
		Key:            "q",
		Description:    "Quit application",
		Category:       CategoryGeneral,
		RequiresTokens: true,
		Handler:        shortcutQuit,
	},
}

// helpShortcuts are defined separately to avoid initialization cycle.
// They reference ShortcutRegistry, so they can't be in the registry itself.
var helpShortcuts = []Shortcut{
	{
		Key:         keys.CtrlG,
		Description: "Show this help",
		Category:    CategoryGeneral,
	},
	{
		Key:            "?",
		Description:    "Show this help",
		Category:       CategoryGeneral,
		RequiresTokens: true,
	},
}

// DisplayOnlyShortcuts are shown in help but not executable from the help modal.
var DisplayOnlyShortcuts = []Shortcut{
	{DisplayKey: "↑/↓ or j/k", Description: "Scroll one row", Category: CategoryTokens},
	{DisplayKey: "PgUp/PgDn", Description: "Scroll one page", Category: CategoryTokens},
	{DisplayKey: "g/G", Description: "Jump to top / bottom", Category: CategoryTokens},
	{DisplayKey: "Mouse wheel", Description: "Scroll the panel under the pointer", Category: CategoryNavigation},
	{DisplayKey: "Drag over tokens", Description: "Select and copy their ids (y/Y copy the selection)", Category: CategoryNavigation},
	{DisplayKey: "Double-click", Description: "Copy one token's id", Category: CategoryNavigation},
	{DisplayKey: "Paste a path", Description: "Open the dropped file", Category: CategoryInput},
	{DisplayKey: "ctrl+r", Description: "Retry a panel that failed to render", Category: CategoryGeneral},
	{DisplayKey: "ctrl+c", Description: "Quit application", Category: CategoryGeneral},
}

// isShortcutApplicable checks if a shortcut is applicable given the current model state.
// This is used to filter which shortcuts appear in the help modal.
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresTokens && m.focus != FocusTokens {
		return false
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut finds and executes a shortcut by key.
// It checks all guards (RequiresTokens, Condition) before executing.
// Returns (model, cmd, true) if the shortcut was found and executed.
// Returns (model, nil, false) if the shortcut was not found or guards failed.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	for _, s := range helpShortcuts {
		if s.Key == key {
			if !m.isShortcutApplicable(s) {
				return m, nil, false // Guard failed, let key propagate to the editor
			}
			result, cmd := shortcutHelp(m)
			return result, cmd, true
		}
	}

	for _, s := range ShortcutRegistry {
		if s.Key != key {
			continue
		}
		if !m.isShortcutApplicable(s) {
			m.log.Debug("shortcut guard failed", "key", key, "focus", m.focus.String())
			return m, nil, false
		}
		m.log.Debug("shortcut", "key", key)
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// getApplicableHelpSections generates help modal sections from shortcuts that are
// applicable in the current application state.
func (m *Model) getApplicableHelpSections(registry []Shortcut, displayOnly []Shortcut) []modals.HelpSection {
	categories := make(map[string][]modals.HelpShortcut)

	add := func(s Shortcut) {
		displayKey := s.DisplayKey
		if displayKey == "" {
			displayKey = s.Key
		}
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  displayKey,
			Desc: s.Description,
		})
	}

	for _, s := range registry {
		if m.isShortcutApplicable(s) {
			add(s)
		}
	}
	// Token scrolling keys only mean something while the token view has focus
	for _, s := range displayOnly {
		if s.Category == CategoryTokens && m.focus != FocusTokens {
			continue
		}
		add(s)
	}

	var sections []modals.HelpSection
	for _, cat := range categoryOrder {
		if shortcuts, ok := categories[cat]; ok && len(shortcuts) > 0 {
			sections = append(sections, modals.HelpSection{
				Title:     cat,
				Shortcuts: shortcuts,
			})
		}
	}
	if m.version != "" {
		sections = append(sections, modals.HelpSection{
			Title:     "About",
			Shortcuts: []modals.HelpShortcut{{Key: "tokenlens", Desc: m.version}},
		})
	}
	return sections
}

// handleHelpShortcutTrigger handles shortcuts triggered from the help modal.
// It maps display keys back to registry keys before executing.
func (m *Model) handleHelpShortcutTrigger(key string) (tea.Model, tea.Cmd) {
	normalizedKey := normalizeHelpDisplayKey(key)
	if normalizedKey == "" {
		return m, nil // Display-only shortcut, no action
	}
	result, cmd, _ := m.ExecuteShortcut(normalizedKey)
	return result, cmd
}

// normalizeHelpDisplayKey converts a help modal display key to its registry
// key. Returns empty string for display-only entries.
func normalizeHelpDisplayKey(displayKey string) string {
	for _, s := range ShortcutRegistry {
		if s.Key == displayKey || (s.DisplayKey != "" && s.DisplayKey == displayKey) {
			return s.Key
		}
	}
	return ""
}

// =============================================================================
// Shortcut Handlers
// =============================================================================

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	m.toggleFocus()
	return m, nil
}

func shortcutCycleView(m *Model) (tea.Model, tea.Cmd) {
	m.setViewMode(m.viewMode.Next())
	return m, m.saveConfigOrFlash()
}

func shortcutModelPicker(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(modals.NewModelPickerState(m.config.GetModel()))
	return m, nil
}

func shortcutOpenFile(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(modals.NewOpenFileState(""))
	return m, nil
}

func shortcutClearFile(m *Model) (tea.Model, tea.Cmd) {
	name := m.editor.FileName()
	m.clearFile()
	return m, m.ShowFlashInfo("Closed " + name)
}

func shortcutToggleChat(m *Model) (tea.Model, tea.Cmd) {
	m.setChatMode(!m.chatMode)
	if m.chatMode {
		return m, m.ShowFlashInfo("Chat mode: lines starting with role: are messages")
	}
	return m, m.ShowFlashInfo("Chat mode off")
}

func shortcutCopyIDs(m *Model) (tea.Model, tea.Cmd) {
	if m.tokens.HasSelection() {
		return m, m.copySelection(false)
	}
	return m, m.copyTokens(false)
}

func shortcutCopyTexts(m *Model) (tea.Model, tea.Cmd) {
	if m.tokens.HasSelection() {
		return m, m.copySelection(true)
	}
	return m, m.copyTokens(true)
}

func shortcutNextTheme(m *Model) (tea.Model, tea.Cmd) {
	next := ui.NextTheme(ui.CurrentThemeName())
	m.applyTheme(next)
	return m, tea.Batch(m.saveConfigOrFlash(), m.ShowFlashInfo("Theme: "+string(next)))
}

func shortcutSettings(m *Model) (tea.Model, tea.Cmd) {
	names := ui.ThemeNames()
	themes := make([]string, len(names))
	for i, n := range names {
		themes[i] = string(n)
	}
	current := modals.SettingsValues{
		Theme:         string(ui.CurrentThemeName()),
		ChatTemplate:  m.config.GetChatTemplate(),
		Backend:       m.config.GetBackend(),
		Notifications: m.config.GetNotificationsEnabled(),
	}
	m.modal.Show(modals.NewSettingsState(current, themes, config.ChatTemplates, config.Backends))
	return m, nil
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	allShortcuts := append(append([]Shortcut{}, ShortcutRegistry...), helpShortcuts...)
	sections := m.getApplicableHelpSections(allShortcuts, DisplayOnlyShortcuts)
	m.modal.Show(modals.NewHelpStateFromSections(sections))
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}

// applyTheme switches the active theme and records it in the config.
func (m *Model) applyTheme(name ui.ThemeName) {
	ui.SetTheme(name)
	m.editor.RefreshStyles()
	m.tokens.Invalidate()
	m.config.SetTheme(string(name))
}
