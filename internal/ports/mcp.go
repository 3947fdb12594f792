package ports

import (
	"context"

	"github.com/xvierd/pomo-cli/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides read access to pomo data for the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// GetTimer returns the state of the local timer.
	GetTimer(ctx context.Context) domain.TimerSnapshot

	// GetStats aggregates sessions over a window.
	GetStats(ctx context.Context, window domain.Window) (*domain.Summary, error)

	// ListSessions returns sessions in a window, newest first, up to limit.
	ListSessions(ctx context.Context, window domain.Window, limit int) ([]*domain.Session, error)

	// ListTaskColors returns every task color assignment.
	ListTaskColors(ctx context.Context) ([]domain.TaskColor, error)

	// ColorFor resolves the color for a task, assigning one if needed.
	ColorFor(ctx context.Context, taskName string) string
}
