package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// ErrCalendarNotFound is returned when the configured calendar does not
// exist on the server.
var ErrCalendarNotFound = errors.New("calendar not found")

// ObjectPutter is the part of the CalDAV client the syncer writes through.
type ObjectPutter interface {
	PutCalendarObject(ctx context.Context, path string, cal *ical.Calendar) (*caldav.CalendarObject, error)
}

// Connector resolves the target calendar and returns a client for it.
type Connector func(ctx context.Context) (ObjectPutter, string, error)

// SyncResult summarizes one SyncAll pass.
type SyncResult struct {
	Pushed  int
	Skipped int
	Failed  int
}

// Syncer pushes recorded sessions into a CalDAV calendar, one event per
// session, and remembers what it pushed in the sync mapping table.
type Syncer struct {
	sessions ports.SessionRepository
	mappings ports.SyncRepository
	colors   ColorFunc
	connect  Connector
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu           sync.Mutex
	client       ObjectPutter
	calendarPath string
}

// Ensure Syncer can be registered with the dispatcher.
var _ ports.SessionListener = (*Syncer)(nil)

// NewSyncer creates a syncer for the configured CalDAV server.
func NewSyncer(cfg config.CalendarConfig, sessions ports.SessionRepository, mappings ports.SyncRepository, colors ColorFunc, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		sessions: sessions,
		mappings: mappings,
		colors:   colors,
		connect:  DialCalDAV(cfg),
		timeout:  cfg.Timeout,
		logger:   logger,
		now:      time.Now,
	}
}

// DialCalDAV returns a connector that discovers the principal, its calendar
// home set, and the calendar named cfg.CalendarName.
func DialCalDAV(cfg config.CalendarConfig) Connector {
	return func(ctx context.Context) (ObjectPutter, string, error) {
		if cfg.URL == "" {
			return nil, "", errors.New("no CalDAV URL configured")
		}
		httpClient := webdav.HTTPClientWithBasicAuth(&http.Client{Timeout: cfg.Timeout}, cfg.Username, cfg.Password)

		client, err := caldav.NewClient(httpClient, cfg.URL)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create CalDAV client: %w", err)
		}
		principal, err := client.FindCurrentUserPrincipal(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("failed to find principal: %w", err)
		}
		homeSet, err := client.FindCalendarHomeSet(ctx, principal)
		if err != nil {
			return nil, "", fmt.Errorf("failed to find calendar home set: %w", err)
		}
		calendars, err := client.FindCalendars(ctx, homeSet)
		if err != nil {
			return nil, "", fmt.Errorf("failed to list calendars: %w", err)
		}
		for _, c := range calendars {
			if c.Name == cfg.CalendarName {
				return client, c.Path, nil
			}
		}
		return nil, "", fmt.Errorf("%w: %q", ErrCalendarNotFound, cfg.CalendarName)
	}
}

// SetConnector replaces how the syncer reaches the server.
func (s *Syncer) SetConnector(c Connector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connect = c
	s.client = nil
}

// OnSessionRecorded implements ports.SessionListener. Failures are logged
// and the session is retried by the next SyncAll.
func (s *Syncer) OnSessionRecorded(ctx context.Context, session domain.Session) {
	if err := s.Push(ctx, &session); err != nil {
		s.logger.Warn("calendar sync failed", "session", session.ID, "task", session.TaskName, "error", err)
		return
	}
	s.logger.Debug("session pushed to calendar", "session", session.ID)
}

// Push uploads one session and records the mapping.
func (s *Syncer) Push(ctx context.Context, session *domain.Session) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	client, calendarPath, err := s.ensureClient(ctx)
	if err != nil {
		return err
	}

	uid := EventUID(session.ID)
	path := objectPath(calendarPath, uid)
	if existing, err := s.mappings.Find(ctx, session.ID); err == nil && existing != nil && existing.CalendarPath != "" {
		path = existing.CalendarPath
	}

	color := ""
	if s.colors != nil {
		color = s.colors(session.TaskName)
	}

	obj, err := client.PutCalendarObject(ctx, path, SessionCalendar(session, color, s.now()))
	if err != nil {
		s.reset()
		return fmt.Errorf("failed to put calendar object: %w", err)
	}
	if obj != nil && obj.Path != "" {
		path = obj.Path
	}

	return s.mappings.Save(ctx, ports.SyncMapping{
		SessionID:    session.ID,
		CalendarUID:  uid,
		CalendarPath: path,
		LastSynced:   s.now(),
	})
}

// SyncAll pushes every stored session that has no mapping yet.
func (s *Syncer) SyncAll(ctx context.Context) (SyncResult, error) {
	var result SyncResult

	// Drain the query before touching the mapping table.
	var sessions []*domain.Session
	for session, err := range s.sessions.All(ctx) {
		if err != nil {
			return result, err
		}
		sessions = append(sessions, session)
	}

	var pending []*domain.Session
	for _, session := range sessions {
		m, err := s.mappings.Find(ctx, session.ID)
		if err != nil {
			return result, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		if m != nil {
			result.Skipped++
			continue
		}
		pending = append(pending, session)
	}

	for _, session := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.Push(ctx, session); err != nil {
			result.Failed++
			s.logger.Warn("calendar sync failed", "session", session.ID, "error", err)
			continue
		}
		result.Pushed++
	}

	s.logger.Info("calendar sync finished", "pushed", result.Pushed, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

func (s *Syncer) ensureClient(ctx context.Context) (ObjectPutter, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, s.calendarPath, nil
	}
	client, path, err := s.connect(ctx)
	if err != nil {
		return nil, "", err
	}
	s.client, s.calendarPath = client, path
	return client, path, nil
}

// reset forces a reconnect on the next push.
func (s *Syncer) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = nil
}

func objectPath(calendarPath, uid string) string {
	name := strings.NewReplacer("@", "_", "/", "_").Replace(uid)
	if !strings.HasSuffix(calendarPath, "/") {
		calendarPath += "/"
	}
	return calendarPath + name + ".ics"
}
