package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/skyline-media/realtime-relay/cache"
)

// SessionCache implements cache.SessionCache backed by Redis, for
// deployments running more than one relay instance.
type SessionCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionCache creates a new [SessionCache] instance.
func NewSessionCache(client *redis.Client, prefix string, ttl time.Duration) *SessionCache {
	return &SessionCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *SessionCache) redisKey(token string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, cache.HashToken(token))
}

// Set stores a validated session entry under the hashed token. The key TTL is
// the shorter of the cache TTL and the session's remaining lifetime.
func (r *SessionCache) Set(ctx context.Context, token string, entry *cache.SessionEntry) error {
	ttl := r.ttl
	if remaining := time.Until(entry.Session.ExpiresAt); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return nil
	}

	entry.CreatedAt = time.Now().UTC()
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal session entry: %w", err)
	}

	if err := r.client.Set(ctx, r.redisKey(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session entry in redis: %w", err)
	}

	return nil
}

// Get retrieves a session entry. Redis errors degrade to a cache miss so the
// validator falls back to the store.
func (r *SessionCache) Get(ctx context.Context, token string) (*cache.SessionEntry, bool) {
	payload, err := r.client.Get(ctx, r.redisKey(token)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("redis session cache read failed, treating as miss")
		}
		return nil, false
	}

	var entry cache.SessionEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		log.Warn().Err(err).Msg("failed to unmarshal cached session entry, treating as miss")
		return nil, false
	}

	entry.LastUsedAt = time.Now().UTC()

	return &entry, true
}

// Delete removes a token's entry.
func (r *SessionCache) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.redisKey(token)).Err()
}

// Count returns the number of cached entries under this prefix.
func (r *SessionCache) Count(ctx context.Context) int {
	var (
		count  int
		cursor uint64
	)
	pattern := fmt.Sprintf("%s:session:*", r.prefix)

	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			log.Warn().Err(err).Msg("redis session cache scan failed")
			break
		}
		count += len(keys)
		if next == 0 {
			break
		}
		cursor = next
	}

	return count
}

// Close is a no-op; the Redis client is owned by the caller.
func (r *SessionCache) Close() error {
	return nil
}

// Ensure interface compliance
var _ cache.SessionCache = (*SessionCache)(nil)
