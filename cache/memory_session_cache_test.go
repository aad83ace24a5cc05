package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyline-media/realtime-relay/domain"
)

func newEntry(token string, expiresIn time.Duration) *SessionEntry {
	return &SessionEntry{
		Session: &domain.Session{
			ID:        "sess-1",
			Token:     token,
			UserID:    "u-1",
			IsActive:  true,
			ExpiresAt: time.Now().Add(expiresIn),
		},
		User: &domain.User{ID: "u-1", Email: "jane@example.com", IsActive: true},
	}
}

func TestMemorySessionCache(t *testing.T) {
	c := NewMemorySessionCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "tok-abc", newEntry("tok-abc", time.Hour)))

		entry, ok := c.Get(ctx, "tok-abc")
		require.True(t, ok)
		assert.Equal(t, "u-1", entry.Session.UserID)
		assert.Equal(t, "jane@example.com", entry.User.Email)
		assert.False(t, entry.LastUsedAt.IsZero())
	})

	t.Run("miss for unknown token", func(t *testing.T) {
		_, ok := c.Get(ctx, "never-stored")
		assert.False(t, ok)
	})

	t.Run("delete removes entry", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "tok-del", newEntry("tok-del", time.Hour)))
		require.NoError(t, c.Delete(ctx, "tok-del"))

		_, ok := c.Get(ctx, "tok-del")
		assert.False(t, ok)
	})

	t.Run("already expired session is not cached", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "tok-exp", newEntry("tok-exp", -time.Minute)))

		_, ok := c.Get(ctx, "tok-exp")
		assert.False(t, ok)
	})
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	b := HashToken("token-b")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, HashToken("token-a"))
}
