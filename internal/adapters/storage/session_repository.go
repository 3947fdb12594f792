package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

const sessionColumns = `id, task_name, start_time, start_unix_ns, planned_ns, actual_ns, completed, git_branch`

// sessionRepository implements ports.SessionRepository using SQLite.
type sessionRepository struct {
	db *sql.DB
}

// newSessionRepository creates a new session repository.
func newSessionRepository(db *sql.DB) ports.SessionRepository {
	return &sessionRepository{db: db}
}

// Record persists a finished session.
func (r *sessionRepository) Record(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return fmt.Errorf("%w: nil session", domain.ErrStoreUnavailable)
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	query := `INSERT INTO sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.TaskName,
		session.StartTime.Format(time.RFC3339Nano),
		session.StartTime.UnixNano(),
		int64(session.PlannedDuration),
		int64(session.ActualDuration),
		session.Completed,
		session.GitBranch,
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: session %s already recorded", domain.ErrStoreUnavailable, session.ID)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to save session: %w", domain.ErrStoreUnavailable, err)
	}

	return nil
}

// Query yields sessions started in [from, to), oldest first.
func (r *sessionRepository) Query(ctx context.Context, from, to time.Time) iter.Seq2[*domain.Session, error] {
	var conds []string
	var args []any
	if !from.IsZero() {
		conds = append(conds, "start_unix_ns >= ?")
		args = append(args, from.UnixNano())
	}
	if !to.IsZero() {
		conds = append(conds, "start_unix_ns < ?")
		args = append(args, to.UnixNano())
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY start_unix_ns ASC, id ASC"

	return func(yield func(*domain.Session, error) bool) {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("%w: failed to query sessions: %w", domain.ErrStoreUnavailable, err))
			return
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			session, err := scanSession(rows)
			if err != nil {
				yield(nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err))
				return
			}
			if !yield(session, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err))
		}
	}
}

// All yields every stored session.
func (r *sessionRepository) All(ctx context.Context) iter.Seq2[*domain.Session, error] {
	return r.Query(ctx, time.Time{}, time.Time{})
}

// FindByID retrieves a session by its unique identifier.
func (r *sessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return session, nil
}

// SearchTaskNames does a fuzzy search over distinct task names.
// Names are returned most recently used first when query is empty.
func (r *sessionRepository) SearchTaskNames(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT task_name
		FROM sessions
		GROUP BY task_name
		ORDER BY MAX(start_unix_ns) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list task names: %w", domain.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: failed to scan task name: %w", domain.ErrStoreUnavailable, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return names, nil
	}

	matches := fuzzy.Find(query, names)
	result := make([]string, 0, len(matches))
	for _, match := range matches {
		result = append(result, match.Str)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession scans a single session row.
func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		session   domain.Session
		startText string
		startNs   int64
		plannedNs int64
		actualNs  int64
	)

	err := row.Scan(
		&session.ID,
		&session.TaskName,
		&startText,
		&startNs,
		&plannedNs,
		&actualNs,
		&session.Completed,
		&session.GitBranch,
	)
	if err != nil {
		return nil, err
	}

	start, err := time.Parse(time.RFC3339Nano, startText)
	if err != nil {
		// Fall back to the ordering column if the text form is unreadable.
		start = time.Unix(0, startNs)
	}
	session.StartTime = start.In(time.Local)
	session.PlannedDuration = time.Duration(plannedNs)
	session.ActualDuration = time.Duration(actualNs)

	return &session, nil
}
