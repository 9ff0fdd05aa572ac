package ui

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/zhubert/tokenlens/internal/ui/modals"
)

func TestNewModal(t *testing.T) {
	modal := NewModal()

	if modal.IsVisible() {
		t.Error("New modal should not be visible")
	}
	if modal.View(80, 24) != "" {
		t.Error("Hidden modal should render nothing")
	}
}

func TestModal_ShowHide(t *testing.T) {
	modal := NewModal()
	modal.Show(modals.NewOpenFileState(""))

	if !modal.IsVisible() {
		t.Error("Modal should be visible after Show")
	}

	modal.SetError("boom")
	modal.Hide()
	if modal.IsVisible() {
		t.Error("Modal should not be visible after Hide")
	}
	if modal.GetError() != "" {
		t.Error("Hide should clear the error")
	}
}

func TestModal_ShowClearsError(t *testing.T) {
	modal := NewModal()
	modal.SetError("old")
	modal.Show(modals.NewOpenFileState(""))
	if modal.GetError() != "" {
		t.Errorf("expected error cleared, got %q", modal.GetError())
	}
}

func TestModal_ViewCenteredWithError(t *testing.T) {
	modal := NewModal()
	modal.Show(modals.NewOpenFileState(""))
	modal.SetError("file too large")

	view := modal.View(100, 30)
	if !strings.Contains(view, "Open File") {
		t.Error("expected modal title in view")
	}
	if !strings.Contains(view, "file too large") {
		t.Error("expected error in view")
	}
	if h := lipgloss.Height(view); h != 30 {
		t.Errorf("expected view to fill screen height 30, got %d", h)
	}
}

func TestModal_UpdateWithoutState(t *testing.T) {
	modal := NewModal()
	_, cmd := modal.Update(nil)
	if cmd != nil {
		t.Error("expected nil cmd with no state")
	}
}

func TestRefreshModalStyles_TracksTheme(t *testing.T) {
	defer SetTheme(ThemeDarkPurple)

	SetTheme(ThemeNord)
	if modals.ColorPrimary != ColorPrimary {
		t.Error("modal primary color not refreshed on theme change")
	}
	if modals.ModalWidth != ModalWidth {
		t.Errorf("modals.ModalWidth = %d, want %d", modals.ModalWidth, ModalWidth)
	}
}
