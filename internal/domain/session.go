// Package domain contains the core business entities for pomo.
// These entities represent focused work sessions, their reporting windows
// and the aggregated statistics built from them, independent of storage
// or presentation.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Session is one finished unit of focused work, either completed or
// interrupted. Sessions are built once by the timer engine and never
// modified after they are recorded.
type Session struct {
	ID              string
	TaskName        string
	StartTime       time.Time
	PlannedDuration time.Duration
	ActualDuration  time.Duration
	Completed       bool
	GitBranch       string
}

// NewSession creates a session with a fresh ID after checking its invariants.
func NewSession(taskName string, start time.Time, planned, actual time.Duration, completed bool) (*Session, error) {
	s := &Session{
		ID:              generateID(),
		TaskName:        strings.TrimSpace(taskName),
		StartTime:       start,
		PlannedDuration: planned,
		ActualDuration:  actual,
		Completed:       completed,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the session invariants.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.TaskName) == "" {
		return ErrEmptyTaskName
	}
	if s.StartTime.IsZero() {
		return fmt.Errorf("%w: missing start time", ErrInvalidSession)
	}
	if s.PlannedDuration <= 0 {
		return fmt.Errorf("%w: planned duration must be positive, got %s", ErrInvalidSession, s.PlannedDuration)
	}
	if s.ActualDuration < 0 || s.ActualDuration > s.PlannedDuration {
		return fmt.Errorf("%w: actual duration %s outside [0, %s]", ErrInvalidSession, s.ActualDuration, s.PlannedDuration)
	}
	if s.Completed && s.ActualDuration != s.PlannedDuration {
		return fmt.Errorf("%w: completed session must run its full planned duration", ErrInvalidSession)
	}
	return nil
}

// EndTime returns when the session stopped.
func (s *Session) EndTime() time.Time {
	return s.StartTime.Add(s.ActualDuration)
}

// StatusLabel returns a human-readable outcome.
func (s *Session) StatusLabel() string {
	if s.Completed {
		return "completed"
	}
	return "interrupted"
}

// SetGitContext stores the branch the session was started on.
func (s *Session) SetGitContext(branch string) {
	s.GitBranch = branch
}
