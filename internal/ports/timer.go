package ports

import (
	"context"

	"github.com/xvierd/pomo-cli/internal/domain"
)

// TimerSource exposes the running timer to renderers.
// This is a driving port (implemented by the engine).
type TimerSource interface {
	// Snapshot returns the current timer state.
	Snapshot() domain.TimerSnapshot
}

// SessionListener is notified after a session has been persisted.
// Implementations handle their own failures; the engine never sees them.
type SessionListener interface {
	OnSessionRecorded(ctx context.Context, session domain.Session)
}

// SessionListenerFunc adapts a plain function to SessionListener.
type SessionListenerFunc func(ctx context.Context, session domain.Session)

// OnSessionRecorded calls f.
func (f SessionListenerFunc) OnSessionRecorded(ctx context.Context, session domain.Session) {
	f(ctx, session)
}
