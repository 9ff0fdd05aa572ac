// Package clipboard copies token ids and texts to the system clipboard.
package clipboard

import (
	"strconv"
	"strings"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/tokenlens/internal/errors"
	"github.com/zhubert/tokenlens/internal/logger"
)

var (
	initOnce sync.Once
	initErr  error

	// write is replaced in tests.
	write = func(text string) error {
		initOnce.Do(func() {
			initErr = clipboard.Init()
		})
		if initErr != nil {
			return errors.ClipboardUnavailable(initErr)
		}
		clipboard.Write(clipboard.FmtText, []byte(text))
		return nil
	}
)

// WriteText writes text to the clipboard.
func WriteText(text string) error {
	if err := write(text); err != nil {
		logger.WithComponent("Clipboard").Warn("write failed", "error", err)
		return err
	}
	logger.WithComponent("Clipboard").Debug("wrote text", "bytes", len(text))
	return nil
}

// FormatIDs renders ids as a JSON-style list, e.g. "[9906, 1917]".
func FormatIDs(ids []int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(id))
	}
	sb.WriteByte(']')
	return sb.String()
}

// FormatTexts renders one quoted token text per line.
func FormatTexts(texts []string) string {
	lines := make([]string, len(texts))
	for i, s := range texts {
		lines[i] = strconv.Quote(s)
	}
	return strings.Join(lines, "\n")
}

// CopyIDs copies ids and returns how many were copied.
func CopyIDs(ids []int) (int, error) {
	return len(ids), WriteText(FormatIDs(ids))
}

// CopyTexts copies token texts and returns how many were copied.
func CopyTexts(texts []string) (int, error) {
	return len(texts), WriteText(FormatTexts(texts))
}
