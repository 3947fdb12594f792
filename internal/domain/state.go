package domain

import (
	"time"
)

// TimerState is the lifecycle state of the timer engine.
type TimerState string

const (
	TimerStateIdle        TimerState = "idle"
	TimerStateRunning     TimerState = "running"
	TimerStateCompleted   TimerState = "completed"
	TimerStateInterrupted TimerState = "interrupted"
)

// TimerSnapshot is a read-only view of the engine at one instant.
type TimerSnapshot struct {
	State     TimerState
	TaskName  string
	StartTime time.Time
	Planned   time.Duration
	Elapsed   time.Duration
	Remaining time.Duration
}

// IsRunning returns true if a session is currently counting down.
func (s TimerSnapshot) IsRunning() bool {
	return s.State == TimerStateRunning
}

// Progress returns the elapsed fraction of the planned duration in [0, 1].
func (s TimerSnapshot) Progress() float64 {
	if s.Planned <= 0 {
		return 0
	}
	p := float64(s.Elapsed) / float64(s.Planned)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// Termination describes how a running session ended.
type Termination struct {
	Session   *Session
	State     TimerState
	Discarded bool
	Color     string
}

// GetStateLabel returns a human-readable label for the timer state.
func GetStateLabel(s TimerState) string {
	switch s {
	case TimerStateIdle:
		return "Idle"
	case TimerStateRunning:
		return "Running"
	case TimerStateCompleted:
		return "Completed"
	case TimerStateInterrupted:
		return "Interrupted"
	default:
		return "Unknown"
	}
}
