package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyChannel(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		want    ChannelPolicy
	}{
		{"private prefix", "private-room1", ChannelPrivate},
		{"presence prefix", "presence-lobby", ChannelPresence},
		{"bare name is public", "news", ChannelPublic},
		{"empty name is public", "", ChannelPublic},
		{"unknown prefix is public", "anything-without-known-prefix", ChannelPublic},
		{"prefix must be leading", "room-private-1", ChannelPublic},
		{"private- alone still private", "private-", ChannelPrivate},
		{"presence does not shadow private", "presence-private-room", ChannelPresence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyChannel(tt.channel))
		})
	}
}

func TestNewPresenceDescriptor(t *testing.T) {
	user := &User{
		ID:        "u-1",
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		IsActive:  true,
	}

	d := NewPresenceDescriptor(user)

	assert.Equal(t, "u-1", d.UserID)
	assert.Equal(t, map[string]string{
		"id":        "u-1",
		"email":     "jane@example.com",
		"firstName": "Jane",
		"lastName":  "Doe",
	}, d.UserInfo)
}

func TestSessionUsable(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	active := &Session{IsActive: true, ExpiresAt: now.Add(time.Minute)}
	assert.True(t, active.Usable(now))

	revoked := &Session{IsActive: false, ExpiresAt: now.Add(time.Minute)}
	assert.False(t, revoked.Usable(now))

	// Expiry boundary is strict: expires_at == now is already expired.
	boundary := &Session{IsActive: true, ExpiresAt: now}
	assert.False(t, boundary.Usable(now))
}
