package domain

import "time"

// Session represents one issued bearer token. Sessions are created by the
// external login flow and only ever read by this service; relayctl can revoke
// them out of band.
type Session struct {
	ID        string    `bson:"_id,omitempty"`
	Token     string    `bson:"token,unique"` // Opaque bearer value, matched exactly
	UserID    string    `bson:"user_id"`
	IsActive  bool      `bson:"is_active"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

// Usable reports whether the session itself is still valid at the given
// instant. It does not consult the owning user; the validator checks the
// user's state separately so the surfaced error message stays deterministic.
func (s *Session) Usable(now time.Time) bool {
	return s.IsActive && s.ExpiresAt.After(now)
}

// SessionFilter narrows session listings (relayctl, admin tooling).
type SessionFilter struct {
	IsActive *bool
	FromDate time.Time
	ToDate   time.Time
}
