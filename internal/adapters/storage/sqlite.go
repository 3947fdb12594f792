// Package storage provides SQLite implementations of the storage ports.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/xvierd/pomo-cli/internal/ports"
	"modernc.org/sqlite"
)

// DefaultFileName is the database file inside the data directory.
const DefaultFileName = "sessions.db"

// sqliteStorage implements the ports.Storage interface using SQLite.
type sqliteStorage struct {
	db          *sql.DB
	sessionRepo ports.SessionRepository
	colorRepo   ports.ColorRepository
	syncRepo    ports.SyncRepository
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// New creates a new SQLite storage instance.
func New(dbPath string) (ports.Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	storage := &sqliteStorage{
		db:          db,
		sessionRepo: newSessionRepository(db),
		colorRepo:   newColorRepository(db),
		syncRepo:    newSyncRepository(db),
	}

	if err := storage.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// NewMemory creates a new in-memory SQLite storage instance for testing.
func NewMemory() (ports.Storage, error) {
	return New(":memory:")
}

// Sessions returns the session repository.
func (s *sqliteStorage) Sessions() ports.SessionRepository {
	return s.sessionRepo
}

// Colors returns the task color repository.
func (s *sqliteStorage) Colors() ports.ColorRepository {
	return s.colorRepo
}

// SyncMappings returns the calendar sync repository.
func (s *sqliteStorage) SyncMappings() ports.SyncRepository {
	return s.syncRepo
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// columnMigrations lists columns added after the first schema. They are
// added with defaults when an older database is opened.
var columnMigrations = []struct {
	table, column, definition string
}{
	{"sessions", "git_branch", "TEXT NOT NULL DEFAULT ''"},
}

// Migrate creates the database schema and brings older databases forward.
// Columns are only ever added, never dropped or redefined.
func (s *sqliteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		task_name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		start_unix_ns INTEGER NOT NULL,
		planned_ns INTEGER NOT NULL,
		actual_ns INTEGER NOT NULL,
		completed INTEGER NOT NULL,
		git_branch TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_unix_ns);
	CREATE INDEX IF NOT EXISTS idx_sessions_task ON sessions(task_name);

	CREATE TABLE IF NOT EXISTS task_colors (
		task_name TEXT PRIMARY KEY,
		color TEXT NOT NULL,
		assigned_unix_ns INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sync_mappings (
		session_id TEXT PRIMARY KEY,
		calendar_uid TEXT NOT NULL UNIQUE,
		calendar_path TEXT NOT NULL DEFAULT '',
		last_synced_unix_ns INTEGER NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	for _, m := range columnMigrations {
		var count int
		err := s.db.QueryRow(
			`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
			m.table, m.column,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to inspect %s: %w", m.table, err)
		}
		if count > 0 {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.table, m.column, m.definition)
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to add %s.%s: %w", m.table, m.column, err)
		}
	}

	return nil
}

// isUniqueConstraintError checks if an error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == 2067 || code == 1555 // SQLITE_CONSTRAINT_UNIQUE, SQLITE_CONSTRAINT_PRIMARYKEY
}
