package services

import (
	"context"
	"sort"
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// StatsService aggregates stored sessions into reporting summaries.
type StatsService struct {
	sessions  ports.SessionRepository
	colors    ColorResolver
	clock     Clock
	weekStart time.Weekday
}

// NewStatsService creates a stats service.
func NewStatsService(sessions ports.SessionRepository, colors ColorResolver, weekStart time.Weekday) *StatsService {
	return &StatsService{
		sessions:  sessions,
		colors:    colors,
		clock:     SystemClock(),
		weekStart: weekStart,
	}
}

// SetClock replaces the time source used to resolve windows.
func (s *StatsService) SetClock(c Clock) { s.clock = c }

// WeekStart returns the configured first day of the week.
func (s *StatsService) WeekStart() time.Weekday { return s.weekStart }

// Resolve turns a window into a concrete period ending now.
func (s *StatsService) Resolve(window domain.Window) (domain.Period, error) {
	return window.Resolve(s.clock.Now(), s.weekStart)
}

// Aggregate summarizes the sessions inside window.
func (s *StatsService) Aggregate(ctx context.Context, window domain.Window) (*domain.Summary, error) {
	period, err := s.Resolve(window)
	if err != nil {
		return nil, err
	}
	summary, err := s.AggregatePeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	summary.Window = window
	return summary, nil
}

// AggregatePeriod summarizes the sessions started in [period.Start, period.End).
func (s *StatsService) AggregatePeriod(ctx context.Context, period domain.Period) (*domain.Summary, error) {
	acc := domain.NewAccumulator("", period)
	for session, err := range s.sessions.Query(ctx, period.Start, period.End) {
		if err != nil {
			return nil, err
		}
		acc.Add(session)
	}
	summary := acc.Finish()

	// Colors are resolved after the query is drained so the registry can
	// use the store.
	if s.colors != nil {
		for i := range summary.Tasks {
			summary.Tasks[i].Color = s.colors.ColorFor(ctx, summary.Tasks[i].TaskName)
		}
	}
	return summary, nil
}

// Sessions returns the sessions inside window, newest first. A limit of
// zero or less returns all of them.
func (s *StatsService) Sessions(ctx context.Context, window domain.Window, limit int) ([]*domain.Session, error) {
	period, err := s.Resolve(window)
	if err != nil {
		return nil, err
	}
	var out []*domain.Session
	for session, err := range s.sessions.Query(ctx, period.Start, period.End) {
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
