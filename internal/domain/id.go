package domain

import "github.com/google/uuid"

// generateID returns a random session ID. It doubles as the stable part of
// the session's calendar UID.
func generateID() string {
	return uuid.NewString()
}
