package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// ColorResolver resolves the display color of a task.
type ColorResolver interface {
	ColorFor(ctx context.Context, taskName string) string
}

// ColorRegistry hands out stable task colors from a palette.
// Assignments are cached in memory first and persisted second, so a
// storage failure never changes a color already handed out.
type ColorRegistry struct {
	mu      sync.Mutex
	repo    ports.ColorRepository
	palette []string
	logger  *slog.Logger
	now     func() time.Time

	loaded  bool
	entries map[string]domain.TaskColor
	order   []string
}

// NewColorRegistry creates a registry backed by repo. An empty palette
// falls back to domain.DefaultPalette.
func NewColorRegistry(repo ports.ColorRepository, palette []string, logger *slog.Logger) *ColorRegistry {
	if len(palette) == 0 {
		palette = domain.DefaultPalette
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ColorRegistry{
		repo:    repo,
		palette: append([]string(nil), palette...),
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]domain.TaskColor),
	}
}

// ColorFor returns the task's color, allocating and persisting one on first
// use. It never fails; persistence problems are logged.
func (r *ColorRegistry) ColorFor(ctx context.Context, taskName string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureLoaded(ctx)
	if tc, ok := r.entries[taskName]; ok {
		return tc.Color
	}

	if r.repo != nil {
		tc, err := r.repo.Find(ctx, taskName)
		if err != nil {
			r.logger.Warn("task color lookup failed", "task", taskName, "error", err)
		} else if tc != nil {
			r.remember(*tc)
			return tc.Color
		}
	}

	tc := domain.TaskColor{
		TaskName:   taskName,
		Color:      domain.NextColor(r.palette, r.usedColors()),
		AssignedAt: r.now(),
	}
	r.remember(tc)

	if r.repo != nil {
		if err := r.repo.Save(ctx, tc); err != nil {
			r.logger.Warn("task color not persisted", "task", taskName, "color", tc.Color, "error", err)
		}
	}
	return tc.Color
}

// PeekColor returns the task's color if it has one, or the color ColorFor
// would allocate next. Nothing is cached or persisted.
func (r *ColorRegistry) PeekColor(ctx context.Context, taskName string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureLoaded(ctx)
	if tc, ok := r.entries[taskName]; ok {
		return tc.Color
	}
	return domain.NextColor(r.palette, r.usedColors())
}

// SetColor overrides a task's color.
func (r *ColorRegistry) SetColor(ctx context.Context, taskName, color string) (domain.TaskColor, error) {
	taskName = strings.TrimSpace(taskName)
	if taskName == "" {
		return domain.TaskColor{}, domain.ErrEmptyTaskName
	}
	normalized, err := domain.NormalizeColor(color)
	if err != nil {
		return domain.TaskColor{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureLoaded(ctx)
	tc, ok := r.entries[taskName]
	if !ok {
		tc = domain.TaskColor{TaskName: taskName, AssignedAt: r.now()}
	}
	tc.Color = normalized
	r.remember(tc)

	if r.repo != nil {
		if err := r.repo.Save(ctx, tc); err != nil {
			return tc, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
	}
	return tc, nil
}

// All lists every known assignment in allocation order.
func (r *ColorRegistry) All(ctx context.Context) []domain.TaskColor {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureLoaded(ctx)
	out := make([]domain.TaskColor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

func (r *ColorRegistry) ensureLoaded(ctx context.Context) {
	if r.loaded || r.repo == nil {
		return
	}
	colors, err := r.repo.List(ctx)
	if err != nil {
		r.logger.Warn("task colors not loaded", "error", err)
		return
	}
	for _, tc := range colors {
		if _, ok := r.entries[tc.TaskName]; ok {
			continue
		}
		r.remember(tc)
	}
	r.loaded = true
}

func (r *ColorRegistry) usedColors() []string {
	used := make([]string, 0, len(r.order))
	for _, name := range r.order {
		used = append(used, r.entries[name].Color)
	}
	return used
}

func (r *ColorRegistry) remember(tc domain.TaskColor) {
	if _, ok := r.entries[tc.TaskName]; !ok {
		r.order = append(r.order, tc.TaskName)
	}
	r.entries[tc.TaskName] = tc
}
