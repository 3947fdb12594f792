package ports

import "context"

// GitInfo is the repository context a session was started in. Only the
// branch is stored with the session.
type GitInfo struct {
	Branch     string
	Commit     string
	IsClean    bool
	Repository string
}

// GitDetector defines the interface for git context detection.
// This is a driven port (implemented by adapters).
type GitDetector interface {
	// Detect scans the given directory for git context.
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)

	// IsAvailable reports whether detection can work at all; the engine
	// skips Detect when it returns false.
	IsAvailable() bool
}
