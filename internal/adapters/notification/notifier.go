// Package notification announces finished sessions on the desktop.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// sendFunc matches beeep.Notify and beeep.Alert.
type sendFunc func(title, message string, icon any) error

// Notifier handles desktop notifications.
type Notifier struct {
	cfg    config.NotificationConfig
	logger *slog.Logger
	notify sendFunc
	alert  sendFunc
}

// Ensure Notifier can be registered with the dispatcher.
var _ ports.SessionListener = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg config.NotificationConfig, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		cfg:    cfg,
		logger: logger,
		notify: beeep.Notify,
		alert:  beeep.Alert,
	}
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg.Enabled
}

// Notify displays a desktop notification if enabled. With sound enabled
// the alert variant is used.
func (n *Notifier) Notify(title, message string) error {
	if !n.cfg.Enabled {
		return nil
	}
	if n.cfg.Sound {
		return n.alert(title, message, "")
	}
	return n.notify(title, message, "")
}

// OnSessionRecorded implements ports.SessionListener.
func (n *Notifier) OnSessionRecorded(ctx context.Context, session domain.Session) {
	title, message := sessionMessage(session)
	if err := n.Notify(title, message); err != nil {
		n.logger.Warn("desktop notification failed", "session", session.ID, "error", err)
	}
}

func sessionMessage(s domain.Session) (string, string) {
	if s.Completed {
		return "🍅 Pomodoro Complete!",
			fmt.Sprintf("Great job! You finished %s of %s.", domain.FormatDuration(s.ActualDuration), s.TaskName)
	}
	return "⏹ Session Stopped",
		fmt.Sprintf("Logged %s of %s (planned %s).",
			domain.FormatDuration(s.ActualDuration), s.TaskName, domain.FormatDuration(s.PlannedDuration))
}
