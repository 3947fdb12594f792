package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo-cli/internal/adapters/storage"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// fakeClock is a manually driven clock. In auto mode every After call
// advances time by d and fires immediately; otherwise After never fires.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	auto bool
}

func newFakeClock(now time.Time) *fakeClock { return &fakeClock{now: now} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	if c.auto {
		c.now = c.now.Add(d)
		ch <- c.now
	}
	return ch
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), storage.DefaultFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// failingColors makes every persistence call fail.
type failingColors struct {
	saves int
}

var errBroken = errors.New("disk on fire")

func (f *failingColors) Find(ctx context.Context, taskName string) (*domain.TaskColor, error) {
	return nil, errBroken
}

func (f *failingColors) List(ctx context.Context) ([]domain.TaskColor, error) {
	return nil, errBroken
}

func (f *failingColors) Save(ctx context.Context, color domain.TaskColor) error {
	f.saves++
	return errBroken
}

// recordingPublisher collects published sessions.
type recordingPublisher struct {
	mu       sync.Mutex
	sessions []domain.Session
}

func (p *recordingPublisher) Publish(s domain.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions = append(p.sessions, s)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

func allSessions(t *testing.T, repo ports.SessionRepository) []*domain.Session {
	t.Helper()
	var out []*domain.Session
	for s, err := range repo.All(context.Background()) {
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}
