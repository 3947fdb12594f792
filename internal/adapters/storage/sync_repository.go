package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/pomo-cli/internal/ports"
)

// syncRepository implements ports.SyncRepository using SQLite.
type syncRepository struct {
	db *sql.DB
}

func newSyncRepository(db *sql.DB) ports.SyncRepository {
	return &syncRepository{db: db}
}

// Find returns the mapping for a session, or nil if it was never synced.
func (r *syncRepository) Find(ctx context.Context, sessionID string) (*ports.SyncMapping, error) {
	var (
		m        ports.SyncMapping
		syncedNs int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT session_id, calendar_uid, calendar_path, last_synced_unix_ns
		FROM sync_mappings WHERE session_id = ?
	`, sessionID).Scan(&m.SessionID, &m.CalendarUID, &m.CalendarPath, &syncedNs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find sync mapping: %w", err)
	}
	m.LastSynced = time.Unix(0, syncedNs)
	return &m, nil
}

// Save inserts or updates a mapping.
func (r *syncRepository) Save(ctx context.Context, m ports.SyncMapping) error {
	synced := m.LastSynced
	if synced.IsZero() {
		synced = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_mappings (session_id, calendar_uid, calendar_path, last_synced_unix_ns)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			calendar_uid = excluded.calendar_uid,
			calendar_path = excluded.calendar_path,
			last_synced_unix_ns = excluded.last_synced_unix_ns
	`, m.SessionID, m.CalendarUID, m.CalendarPath, synced.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save sync mapping: %w", err)
	}
	return nil
}

// List returns every mapping, most recently synced first.
func (r *syncRepository) List(ctx context.Context) ([]ports.SyncMapping, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id, calendar_uid, calendar_path, last_synced_unix_ns
		FROM sync_mappings ORDER BY last_synced_unix_ns DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mappings []ports.SyncMapping
	for rows.Next() {
		var (
			m        ports.SyncMapping
			syncedNs int64
		)
		if err := rows.Scan(&m.SessionID, &m.CalendarUID, &m.CalendarPath, &syncedNs); err != nil {
			return nil, fmt.Errorf("failed to scan sync mapping: %w", err)
		}
		m.LastSynced = time.Unix(0, syncedNs)
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}
