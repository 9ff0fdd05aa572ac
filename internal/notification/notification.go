// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gen2brain/beeep"

	"github.com/zhubert/tokenlens/internal/logger"
)

// AppName titles every notification.
const AppName = "tokenlens"

// MinDuration is how long a tokenization must run before it is worth a
// notification.
const MinDuration = 3 * time.Second

var notifier = beeep.Notify

// SetNotifier replaces the notification function, for tests.
func SetNotifier(fn func(title, message string, icon any) error) {
	notifier = fn
}

// ResetNotifier restores beeep.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	log := logger.WithComponent("Notification")
	log.Debug("sending notification", "title", title, "message", message)
	// empty icon lets beeep use the platform default
	err := notifier(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// TokenizationFinished announces a finished long tokenization.
func TokenizationFinished(count int, encoding string, elapsed time.Duration) error {
	msg := fmt.Sprintf("%s tokens (%s) in %s", humanize.Comma(int64(count)), encoding, elapsed.Round(100*time.Millisecond))
	return Send(AppName, msg)
}

// ShouldNotify reports whether a run of elapsed deserves a notification.
func ShouldNotify(enabled bool, elapsed time.Duration) bool {
	return enabled && elapsed >= MinDuration
}
