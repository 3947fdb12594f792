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

// EngineConfig tunes the timer engine.
type EngineConfig struct {
	DefaultDuration time.Duration
	DiscardBelow    time.Duration
	TickInterval    time.Duration
}

// DefaultEngineConfig returns the stock engine settings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultDuration: domain.DefaultPlannedDuration,
		DiscardBelow:    5 * time.Second,
		TickInterval:    time.Second,
	}
}

// Publisher receives sessions after they were persisted.
type Publisher interface {
	Publish(session domain.Session)
}

// StartRequest contains data to start a session.
type StartRequest struct {
	TaskName      string
	DurationInput string
	WorkingDir    string
}

// run is one Running session. done is closed once it has terminated and
// term/err are final.
type run struct {
	task    string
	start   time.Time
	planned time.Duration
	branch  string

	done chan struct{}
	term *domain.Termination
	err  error
}

// Engine owns the single running session of the process.
type Engine struct {
	sessions    ports.SessionRepository
	colors      ColorResolver
	publisher   Publisher
	gitDetector ports.GitDetector
	clock       Clock
	logger      *slog.Logger
	config      EngineConfig

	mu      sync.Mutex
	state   domain.TimerState
	current *run
}

// Ensure Engine can drive the countdown renderer.
var _ ports.TimerSource = (*Engine)(nil)

// NewEngine creates an idle engine.
func NewEngine(sessions ports.SessionRepository, colors ColorResolver, config EngineConfig) *Engine {
	defaults := DefaultEngineConfig()
	if config.DefaultDuration <= 0 {
		config.DefaultDuration = defaults.DefaultDuration
	}
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	if config.DiscardBelow < 0 {
		config.DiscardBelow = 0
	}
	return &Engine{
		sessions: sessions,
		colors:   colors,
		clock:    SystemClock(),
		logger:   slog.Default(),
		config:   config,
		state:    domain.TimerStateIdle,
	}
}

// SetClock replaces the time source.
func (e *Engine) SetClock(c Clock) { e.clock = c }

// SetPublisher sets where recorded sessions are announced.
func (e *Engine) SetPublisher(p Publisher) { e.publisher = p }

// SetGitDetector enables tagging sessions with the current branch.
func (e *Engine) SetGitDetector(d ports.GitDetector) { e.gitDetector = d }

// SetLogger sets the engine logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Config returns the active engine settings.
func (e *Engine) Config() EngineConfig { return e.config }

// Start begins a session. It fails without touching state if the task is
// empty, the duration cannot be parsed, or a session is already running.
func (e *Engine) Start(ctx context.Context, req StartRequest) (domain.TimerSnapshot, error) {
	task := strings.TrimSpace(req.TaskName)
	if task == "" {
		return domain.TimerSnapshot{}, domain.ErrEmptyTaskName
	}
	planned, err := domain.ParseDurationOr(req.DurationInput, e.config.DefaultDuration)
	if err != nil {
		return domain.TimerSnapshot{}, err
	}

	e.mu.Lock()
	running := e.current != nil
	e.mu.Unlock()
	if running {
		return domain.TimerSnapshot{}, domain.ErrAlreadyRunning
	}

	var branch string
	if e.gitDetector != nil && e.gitDetector.IsAvailable() && req.WorkingDir != "" {
		info, err := e.gitDetector.Detect(ctx, req.WorkingDir)
		if err == nil && info != nil {
			branch = info.Branch
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		return domain.TimerSnapshot{}, domain.ErrAlreadyRunning
	}
	e.current = &run{
		task:    task,
		start:   e.clock.Now(),
		planned: planned,
		branch:  branch,
		done:    make(chan struct{}),
	}
	e.state = domain.TimerStateRunning
	e.logger.Debug("session started", "task", task, "planned", planned)

	return e.snapshotLocked(), nil
}

// Snapshot returns the current timer state.
func (e *Engine) Snapshot() domain.TimerSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() domain.TimerSnapshot {
	r := e.current
	if r == nil {
		return domain.TimerSnapshot{State: e.state}
	}
	elapsed := e.clock.Now().Sub(r.start)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > r.planned {
		elapsed = r.planned
	}
	return domain.TimerSnapshot{
		State:     e.state,
		TaskName:  r.task,
		StartTime: r.start,
		Planned:   r.planned,
		Elapsed:   elapsed,
		Remaining: r.planned - elapsed,
	}
}

// Wait blocks until the running session expires or ctx is cancelled.
// Cancellation interrupts the session; it is still recorded.
func (e *Engine) Wait(ctx context.Context) (*domain.Termination, error) {
	e.mu.Lock()
	r := e.current
	e.mu.Unlock()
	if r == nil {
		return nil, domain.ErrNotRunning
	}

	for {
		elapsed := e.clock.Now().Sub(r.start)
		if elapsed >= r.planned {
			return e.finish(ctx, r, domain.TimerStateCompleted)
		}
		sleep := r.planned - elapsed
		if sleep > e.config.TickInterval {
			sleep = e.config.TickInterval
		}

		select {
		case <-r.done:
			return r.term, r.err
		case <-ctx.Done():
			return e.finish(ctx, r, domain.TimerStateInterrupted)
		case <-e.clock.After(sleep):
		}
	}
}

// Interrupt ends the running session early.
func (e *Engine) Interrupt(ctx context.Context) (*domain.Termination, error) {
	e.mu.Lock()
	r := e.current
	e.mu.Unlock()
	if r == nil {
		return nil, domain.ErrNotRunning
	}
	return e.finish(ctx, r, domain.TimerStateInterrupted)
}

// finish terminates r exactly once. Later callers get the same outcome.
func (e *Engine) finish(ctx context.Context, r *run, state domain.TimerState) (*domain.Termination, error) {
	e.mu.Lock()
	if e.current != r {
		e.mu.Unlock()
		<-r.done
		return r.term, r.err
	}
	actual := r.planned
	completed := state == domain.TimerStateCompleted
	if !completed {
		actual = e.clock.Now().Sub(r.start)
		if actual > r.planned {
			actual = r.planned
		}
		if actual < 0 {
			actual = 0
		}
	}
	e.current = nil
	e.state = state
	e.mu.Unlock()

	r.term, r.err = e.terminate(context.WithoutCancel(ctx), r, state, actual, completed)

	e.mu.Lock()
	if e.current == nil {
		e.state = domain.TimerStateIdle
	}
	e.mu.Unlock()
	close(r.done)

	return r.term, r.err
}

func (e *Engine) terminate(ctx context.Context, r *run, state domain.TimerState, actual time.Duration, completed bool) (*domain.Termination, error) {
	session, err := domain.NewSession(r.task, r.start, r.planned, actual, completed)
	if err != nil {
		return nil, fmt.Errorf("failed to build session: %w", err)
	}
	session.SetGitContext(r.branch)

	term := &domain.Termination{Session: session, State: state}

	if !completed && actual < e.config.DiscardBelow {
		term.Discarded = true
		e.logger.Debug("session discarded", "task", r.task, "actual", actual)
		return term, nil
	}

	if err := e.sessions.Record(ctx, session); err != nil {
		e.logger.Error("session not recorded", "task", r.task, "error", err)
		return term, err
	}

	if e.colors != nil {
		term.Color = e.colors.ColorFor(ctx, session.TaskName)
	}
	if e.publisher != nil {
		e.publisher.Publish(*session)
	}
	e.logger.Info("session recorded", "task", session.TaskName, "state", state, "actual", actual)

	return term, nil
}
