package app

import (
	"sync"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// DesktopNotifier shows desktop notifications for human-facing events
// like startup failures and config reloads.
type DesktopNotifier struct {
	logger  *zap.SugaredLogger
	mu      sync.RWMutex
	enabled bool
}

// NewDesktopNotifier creates a new DesktopNotifier
func NewDesktopNotifier(logger *zap.SugaredLogger) (*DesktopNotifier, error) {
	logger = logger.Named("notifier")
	n := &DesktopNotifier{logger: logger, enabled: true}

	logger.Debug("Created desktop notifier instance")

	return n, nil
}

// SetEnabled turns notification delivery on or off. Suppressed
// notifications are still logged.
func (n *DesktopNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// Notify sends a desktop notification
func (n *DesktopNotifier) Notify(title string, message string) {
	n.mu.RLock()
	enabled := n.enabled
	n.mu.RUnlock()

	if !enabled {
		n.logger.Debugw("Notification suppressed", "title", title, "message", message)
		return
	}

	n.logger.Infow("Sending notification", "title", title, "message", message)

	if err := beeep.Notify(title, message, ""); err != nil {
		n.logger.Errorw("Failed to send notification", "error", err)
	}
}
