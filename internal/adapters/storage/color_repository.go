package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// colorRepository implements ports.ColorRepository using SQLite.
type colorRepository struct {
	db *sql.DB
}

func newColorRepository(db *sql.DB) ports.ColorRepository {
	return &colorRepository{db: db}
}

// Find returns the stored color for a task, or nil if none exists.
func (r *colorRepository) Find(ctx context.Context, taskName string) (*domain.TaskColor, error) {
	var (
		tc         domain.TaskColor
		assignedNs int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT task_name, color, assigned_unix_ns FROM task_colors WHERE task_name = ?`,
		taskName,
	).Scan(&tc.TaskName, &tc.Color, &assignedNs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task color: %w", err)
	}
	tc.AssignedAt = time.Unix(0, assignedNs)
	return &tc, nil
}

// List returns every assignment in the order colors were handed out.
func (r *colorRepository) List(ctx context.Context) ([]domain.TaskColor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT task_name, color, assigned_unix_ns FROM task_colors ORDER BY assigned_unix_ns ASC, task_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list task colors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var colors []domain.TaskColor
	for rows.Next() {
		var (
			tc         domain.TaskColor
			assignedNs int64
		)
		if err := rows.Scan(&tc.TaskName, &tc.Color, &assignedNs); err != nil {
			return nil, fmt.Errorf("failed to scan task color: %w", err)
		}
		tc.AssignedAt = time.Unix(0, assignedNs)
		colors = append(colors, tc)
	}

	return colors, rows.Err()
}

// Save inserts or replaces an assignment.
func (r *colorRepository) Save(ctx context.Context, color domain.TaskColor) error {
	assigned := color.AssignedAt
	if assigned.IsZero() {
		assigned = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO task_colors (task_name, color, assigned_unix_ns)
		VALUES (?, ?, ?)
		ON CONFLICT(task_name) DO UPDATE SET color = excluded.color
	`, color.TaskName, color.Color, assigned.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save task color: %w", err)
	}
	return nil
}
