package models

import "time"

// Session is an ephemeral bearer credential. A session whose ExpiresAt is in
// the past is logically dead and must be treated as absent by every reader.
type Session struct {
	Token     []byte
	UserID    uint32
	ExpiresAt time.Time
}

// Expired reports whether the session is dead at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
