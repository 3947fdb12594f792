// Package ports defines the interfaces (driven and driving ports)
// for the pomo application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"iter"
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
)

// SessionRepository defines the interface for session persistence.
// This is a driven port (implemented by adapters).
type SessionRepository interface {
	// Record durably appends one finished session.
	Record(ctx context.Context, session *domain.Session) error

	// Query yields sessions with from <= StartTime < to in ascending start
	// order. A zero bound is unbounded. Each range over the sequence runs a
	// fresh query.
	Query(ctx context.Context, from, to time.Time) iter.Seq2[*domain.Session, error]

	// All yields every stored session.
	All(ctx context.Context) iter.Seq2[*domain.Session, error]

	// FindByID retrieves a session by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.Session, error)

	// SearchTaskNames fuzzy-matches distinct task names.
	SearchTaskNames(ctx context.Context, query string) ([]string, error)
}

// ColorRepository persists task color assignments.
type ColorRepository interface {
	// Find returns the stored color for a task, or nil if none exists.
	Find(ctx context.Context, taskName string) (*domain.TaskColor, error)

	// List returns every assignment ordered by assignment time.
	List(ctx context.Context) ([]domain.TaskColor, error)

	// Save inserts or replaces an assignment.
	Save(ctx context.Context, color domain.TaskColor) error
}

// SyncMapping links a stored session to its calendar object.
type SyncMapping struct {
	SessionID    string
	CalendarUID  string
	CalendarPath string
	LastSynced   time.Time
}

// SyncRepository tracks which sessions were pushed to a calendar.
type SyncRepository interface {
	Find(ctx context.Context, sessionID string) (*SyncMapping, error)
	Save(ctx context.Context, mapping SyncMapping) error
	List(ctx context.Context) ([]SyncMapping, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Sessions provides access to session operations.
	Sessions() SessionRepository

	// Colors provides access to task color assignments.
	Colors() ColorRepository

	// SyncMappings provides access to calendar sync bookkeeping.
	SyncMappings() SyncRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
