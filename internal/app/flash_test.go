package app

import (
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestSaveConfigOrFlash_Success(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)

	cmd := m.saveConfigOrFlash()
	if cmd != nil {
		t.Error("expected nil cmd on successful save, got non-nil")
	}
	if m.footer.HasFlash() {
		t.Error("a successful save should not flash")
	}
}

func TestSaveConfigOrFlash_Error(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)
	// A regular file where the config directory should be
	blocker := writeFile(t, "not-a-dir", "x")
	m.config.SetPath(filepath.Join(blocker, "config.yaml"))

	cmd := m.saveConfigOrFlash()
	if cmd == nil {
		t.Error("expected non-nil cmd on failed save, got nil")
	}
	if !m.footer.HasFlash() {
		t.Error("a failed save should flash an error")
	}
}

func TestShowFlash_Types(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)

	for name, show := range map[string]func(string) tea.Cmd{
		"error":   func(s string) tea.Cmd { return m.ShowFlashError(s) },
		"warning": func(s string) tea.Cmd { return m.ShowFlashWarning(s) },
		"info":    func(s string) tea.Cmd { return m.ShowFlashInfo(s) },
		"success": func(s string) tea.Cmd { return m.ShowFlashSuccess(s) },
	} {
		m.footer.ClearFlash()
		if cmd := show(name + " message"); cmd == nil {
			t.Errorf("%s: expected a tick command", name)
		}
		if !m.footer.HasFlash() {
			t.Errorf("%s: expected flash to be set", name)
		}
	}
}
