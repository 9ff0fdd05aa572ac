package modals

import (
	"os"
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/zhubert/tokenlens/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Reset()
	logger.Init(os.DevNull)

	plain := lipgloss.NewStyle()
	c := lipgloss.Color("#FFFFFF")
	SetStyles(plain, plain, plain, plain, plain, c, c, c, c, c, c, 50, 256, 60, 10)

	code := m.Run()

	logger.Reset()
	os.Exit(code)
}
