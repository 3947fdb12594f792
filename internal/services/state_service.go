package services

import (
	"context"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// StateService implements the MCPStateProvider interface.
type StateService struct {
	timer  ports.TimerSource
	stats  *StatsService
	colors *ColorRegistry
}

// Ensure StateService implements ports.MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)

// NewStateService creates a new state service. timer may be nil when no
// engine runs in this process.
func NewStateService(timer ports.TimerSource, stats *StatsService, colors *ColorRegistry) *StateService {
	return &StateService{timer: timer, stats: stats, colors: colors}
}

// GetTimer implements ports.MCPStateProvider.
func (s *StateService) GetTimer(ctx context.Context) domain.TimerSnapshot {
	if s.timer == nil {
		return domain.TimerSnapshot{State: domain.TimerStateIdle}
	}
	return s.timer.Snapshot()
}

// GetStats implements ports.MCPStateProvider.
func (s *StateService) GetStats(ctx context.Context, window domain.Window) (*domain.Summary, error) {
	return s.stats.Aggregate(ctx, window)
}

// ListSessions implements ports.MCPStateProvider.
func (s *StateService) ListSessions(ctx context.Context, window domain.Window, limit int) ([]*domain.Session, error) {
	return s.stats.Sessions(ctx, window, limit)
}

// ListTaskColors implements ports.MCPStateProvider.
func (s *StateService) ListTaskColors(ctx context.Context) ([]domain.TaskColor, error) {
	return s.colors.All(ctx), nil
}

// ColorFor implements ports.MCPStateProvider.
func (s *StateService) ColorFor(ctx context.Context, taskName string) string {
	return s.colors.ColorFor(ctx, taskName)
}
