package domain

import "errors"

// Common domain errors.
var (
	ErrInvalidDurationFormat = errors.New("invalid duration format")
	ErrAlreadyRunning        = errors.New("a session is already running")
	ErrNotRunning            = errors.New("no session is running")
	ErrStoreUnavailable      = errors.New("session store unavailable")
	ErrInvalidConfig         = errors.New("invalid config")
	ErrEmptyTaskName         = errors.New("task name cannot be empty")
	ErrInvalidColor          = errors.New("invalid color")
	ErrInvalidWindow         = errors.New("invalid report window")
	ErrSessionNotFound       = errors.New("session not found")
	ErrInvalidSession        = errors.New("invalid session")
)
