package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemorySessionCache implements SessionCache using ttlcache.
type MemorySessionCache struct {
	cache *ttlcache.Cache[string, *SessionEntry]
	ttl   time.Duration
}

// NewMemorySessionCache creates an in-process session cache with automatic
// expiry cleanup.
//
//nolint:ireturn
func NewMemorySessionCache(ttl time.Duration) SessionCache {
	c := ttlcache.New(
		ttlcache.WithTTL[string, *SessionEntry](ttl),
		ttlcache.WithDisableTouchOnHit[string, *SessionEntry](),
	)

	go c.Start()

	return &MemorySessionCache{cache: c, ttl: ttl}
}

// Set implements SessionCache.Set.
func (s *MemorySessionCache) Set(_ context.Context, token string, entry *SessionEntry) error {
	ttl := s.ttl
	if remaining := time.Until(entry.Session.ExpiresAt); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return nil
	}
	entry.CreatedAt = time.Now().UTC()
	s.cache.Set(HashToken(token), entry, ttl)
	return nil
}

// Get implements SessionCache.Get.
func (s *MemorySessionCache) Get(_ context.Context, token string) (*SessionEntry, bool) {
	item := s.cache.Get(HashToken(token))
	if item == nil {
		return nil, false
	}

	entry := item.Value()
	entry.LastUsedAt = time.Now().UTC()

	return entry, true
}

// Delete removes a token's entry from the cache.
func (s *MemorySessionCache) Delete(_ context.Context, token string) error {
	s.cache.Delete(HashToken(token))

	return nil
}

// Count counts the live entries.
func (s *MemorySessionCache) Count(_ context.Context) int {
	return s.cache.Len()
}

// Close stops the cleanup goroutine.
func (s *MemorySessionCache) Close() error {
	s.cache.Stop()

	return nil
}
