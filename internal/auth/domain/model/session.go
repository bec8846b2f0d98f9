package model

import "time"

// Session is the proof of an authenticated client. A user holds at most one
// live session; a re-login replaces the row rather than adding to it.
type Session struct {
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its server-side expiry at the
// given instant. The cookie carries its own lifetime, but a tampered cookie
// must not outlive the row.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
