package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// DefaultDispatchBuffer is the number of sessions that may wait for listeners.
const DefaultDispatchBuffer = 16

// Dispatcher fans recorded sessions out to listeners on a single background
// goroutine so the record path never waits on them.
type Dispatcher struct {
	listeners []ports.SessionListener
	logger    *slog.Logger

	events chan domain.Session
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts a dispatcher delivering to listeners.
func NewDispatcher(logger *slog.Logger, buffer int, listeners ...ports.SessionListener) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if buffer <= 0 {
		buffer = DefaultDispatchBuffer
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		listeners: listeners,
		logger:    logger,
		events:    make(chan domain.Session, buffer),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
	go d.run()
	return d
}

// Publish queues a session for delivery. It never blocks; when the buffer is
// full or the dispatcher is closed the session is dropped with a warning.
func (d *Dispatcher) Publish(session domain.Session) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn("dispatcher closed, dropping session", "session", session.ID)
		return
	}
	select {
	case d.events <- session:
	default:
		d.logger.Warn("dispatch buffer full, dropping session", "session", session.ID)
	}
}

// Close stops accepting sessions and waits for queued ones to be delivered.
// If ctx expires first, in-flight listeners see their context cancelled.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for session := range d.events {
		for _, l := range d.listeners {
			d.deliver(l, session)
		}
	}
}

func (d *Dispatcher) deliver(l ports.SessionListener, session domain.Session) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("session listener panicked", "session", session.ID, "panic", r)
		}
	}()
	l.OnSessionRecorded(d.ctx, session)
}
