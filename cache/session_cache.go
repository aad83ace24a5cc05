package cache

import (
	"context"
	"time"

	"github.com/skyline-media/realtime-relay/domain"
)

// SessionEntry is a cached session lookup result.
type SessionEntry struct {
	Session    *domain.Session `json:"session"`
	User       *domain.User    `json:"user"`
	CreatedAt  time.Time       `json:"created_at"`
	LastUsedAt time.Time       `json:"last_used_at"`
}

// SessionCache holds recently validated sessions keyed by hashed token. It is
// a read-through optimization only: the validator re-checks activity and
// expiry on every hit, so a cached entry can never outlive the session it
// mirrors by more than the cache TTL.
type SessionCache interface {
	// Set stores an entry under the hashed token. Implementations bound the
	// entry lifetime by both the cache TTL and the session expiry.
	Set(ctx context.Context, token string, entry *SessionEntry) error
	// Get returns the entry for a token, or false when absent or expired.
	Get(ctx context.Context, token string) (*SessionEntry, bool)
	// Delete drops a token's entry (used on revocation via relayctl).
	Delete(ctx context.Context, token string) error
	// Count reports the number of live entries.
	Count(ctx context.Context) int
	// Close releases background resources.
	Close() error
}
