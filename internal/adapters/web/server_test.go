package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo-cli/internal/adapters/storage"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/services"
)

type stubStats struct {
	sessions []*domain.Session
	err      error
	windows  []domain.Window
}

func (s *stubStats) Aggregate(ctx context.Context, window domain.Window) (*domain.Summary, error) {
	s.windows = append(s.windows, window)
	if s.err != nil {
		return nil, s.err
	}
	acc := domain.NewAccumulator(window, domain.Period{End: time.Now()})
	for _, session := range s.sessions {
		acc.Add(session)
	}
	return acc.Finish(), nil
}

func (s *stubStats) Sessions(ctx context.Context, window domain.Window, limit int) ([]*domain.Session, error) {
	s.windows = append(s.windows, window)
	if s.err != nil {
		return nil, s.err
	}
	out := append([]*domain.Session(nil), s.sessions...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestServer(t *testing.T) (*Server, *stubStats) {
	t.Helper()
	store, err := storage.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	coding, err := domain.NewSession("coding", start, 30*time.Minute, 30*time.Minute, true)
	require.NoError(t, err)
	reading, err := domain.NewSession("reading", start.Add(time.Hour), 25*time.Minute, 10*time.Minute, false)
	require.NoError(t, err)

	stats := &stubStats{sessions: []*domain.Session{reading, coding}}
	colors := services.NewColorRegistry(store.Colors(), nil, nil)
	return NewServer("127.0.0.1:0", stats, colors, nil), stats
}

func do(t *testing.T, s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestStats(t *testing.T) {
	s, stats := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/stats?period=m", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got SummaryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "month", got.Window)
	assert.Equal(t, 2, got.Sessions)
	assert.Equal(t, int64((40 * time.Minute).Seconds()), got.TotalSeconds)
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "coding", got.Tasks[0].Task)
	assert.Equal(t, "30m", got.Tasks[0].Total)
	assert.Equal(t, 1, got.Tasks[1].Interrupted)
	assert.Equal(t, []domain.Window{domain.WindowMonth}, stats.windows)
}

func TestStats_DefaultsToWeek(t *testing.T) {
	s, stats := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []domain.Window{domain.WindowWeek}, stats.windows)
}

func TestStats_Errors(t *testing.T) {
	s, stats := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/stats?period=decade", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid")

	stats.err = domain.ErrStoreUnavailable
	rec = do(t, s, http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSessions(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/sessions?period=a&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Window   string        `json:"window"`
		Sessions []SessionView `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "all", got.Window)
	require.Len(t, got.Sessions, 1)
	assert.Equal(t, "reading", got.Sessions[0].Task)
	assert.Equal(t, "interrupted", got.Sessions[0].Status)
	assert.Equal(t, int64(600), got.Sessions[0].ActualSeconds)

	rec = do(t, s, http.MethodGet, "/api/sessions?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskColors(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/api/task-colors/deep%20work", strings.NewReader(`{"color":"#ABCDEF"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var set TaskColorView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	assert.Equal(t, "deep work", set.Task)
	assert.Equal(t, "#abcdef", set.Color)

	rec = do(t, s, http.MethodGet, "/api/task-colors", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		TaskColors []TaskColorView `json:"task_colors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.TaskColors, 1)
	assert.Equal(t, "#abcdef", list.TaskColors[0].Color)
}

func TestTaskColors_Invalid(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/api/task-colors/coding", strings.NewReader(`{"color":"red"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/task-colors/coding", strings.NewReader(`not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportICal(t *testing.T) {
	s, stats := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/export/ical", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "pomo-all.ics")
	assert.Equal(t, []domain.Window{domain.WindowAll}, stats.windows)

	cal, err := ical.NewDecoder(rec.Body).Decode()
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	summary, err := events[0].Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "🍅 coding", summary, "events are chronological")
}
