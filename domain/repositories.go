package domain

import (
	"context"
	"errors"
)

// Sentinel lookup errors returned by repositories. Services translate these
// into the user-facing error taxonomy; repositories never do.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
)

// SessionRepository defines access to the session store. The relay's hot path
// only reads (GetSessionByToken); the write methods exist for relayctl and the
// external login flow's tooling.
type SessionRepository interface {
	GetSessionByToken(ctx context.Context, token string) (*Session, error)
	StoreSession(ctx context.Context, session *Session) error
	RevokeSession(ctx context.Context, id string) error
	ListSessionsByUserID(ctx context.Context, userID string, filter SessionFilter) ([]*Session, error)
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// UserRepository defines read access to user records, plus the mutations
// relayctl needs for account administration.
type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	SetUserActive(ctx context.Context, id string, active bool) error
	ListUsers(ctx context.Context, pageToken string, pageSize int) ([]*User, string, error)
}

// RoleRepository resolves a role together with its permissions. The join is
// eager-loaded on the validation path; permissions are opaque passthrough
// data there.
type RoleRepository interface {
	GetRoleWithPermissions(ctx context.Context, id string) (*Role, error)
}
