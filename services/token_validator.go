package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skyline-media/realtime-relay/cache"
	"github.com/skyline-media/realtime-relay/domain"
	"github.com/skyline-media/realtime-relay/errors"
	"github.com/skyline-media/realtime-relay/internal/metrics"
)

// TokenValidator resolves an opaque bearer token to an active user.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

// SessionTokenValidator implements TokenValidator against the session store,
// with an optional read-through cache for validated lookups. The validation
// checks run in a fixed order so the surfaced message is deterministic: an
// inactive session belonging to an inactive user reports the session
// problem, not the user one.
type SessionTokenValidator struct {
	sessions domain.SessionRepository
	users    domain.UserRepository
	roles    domain.RoleRepository
	cache    cache.SessionCache // may be nil
	now      func() time.Time
}

// NewSessionTokenValidator creates a validator. sessionCache may be nil to
// disable caching.
func NewSessionTokenValidator(
	sessions domain.SessionRepository,
	users domain.UserRepository,
	roles domain.RoleRepository,
	sessionCache cache.SessionCache,
) *SessionTokenValidator {
	return &SessionTokenValidator{
		sessions: sessions,
		users:    users,
		roles:    roles,
		cache:    sessionCache,
		now:      time.Now,
	}
}

// ValidateToken looks the token up in the session store (exact,
// case-sensitive match) and returns the owning user with role and
// permissions attached. Every failure is an AuthenticationError with one of
// the four contract messages; store outages surface as InfrastructureError.
// The lookup is a pure read: no retries, no writes.
func (v *SessionTokenValidator) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	session, user, err := v.lookup(ctx, token)
	if err != nil {
		metrics.TokenValidationFailureTotal.Inc()
		return nil, err
	}

	now := v.now()
	if !session.IsActive {
		metrics.TokenValidationFailureTotal.Inc()
		return nil, errors.NewAuthenticationError("Token has been invalidated")
	}
	if !session.ExpiresAt.After(now) {
		metrics.TokenValidationFailureTotal.Inc()
		return nil, errors.NewAuthenticationError("Token has expired")
	}
	if !user.IsActive {
		metrics.TokenValidationFailureTotal.Inc()
		return nil, errors.NewAuthenticationError("User account is deactivated")
	}

	return user, nil
}

// lookup resolves the session and its owning user, consulting the cache
// first. Cached entries still go through the full check sequence in
// ValidateToken; only the store round trips are skipped.
func (v *SessionTokenValidator) lookup(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	if v.cache != nil {
		if entry, ok := v.cache.Get(ctx, token); ok {
			metrics.SessionCacheHitTotal.Inc()
			return entry.Session, entry.User, nil
		}
		metrics.SessionCacheMissTotal.Inc()
	}

	session, err := v.sessions.GetSessionByToken(ctx, token)
	if err != nil {
		if stderrors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil, errors.NewAuthenticationError("Invalid token")
		}
		return nil, nil, errors.NewInfrastructureError("session lookup failed", err)
	}

	user, err := v.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if stderrors.Is(err, domain.ErrUserNotFound) {
			// Dangling user reference; indistinguishable from a bad token
			// as far as the caller is concerned.
			return nil, nil, errors.NewAuthenticationError("Invalid token")
		}
		return nil, nil, errors.NewInfrastructureError("user lookup failed", err)
	}

	if user.RoleID != "" {
		role, roleErr := v.roles.GetRoleWithPermissions(ctx, user.RoleID)
		switch {
		case roleErr == nil:
			user.Role = role
		case stderrors.Is(roleErr, domain.ErrRoleNotFound):
			// Tolerated: permissions are passthrough data and nothing on the
			// authorization path branches on them.
			log.Warn().Str("userID", user.ID).Str("roleID", user.RoleID).Msg("user references missing role")
		default:
			return nil, nil, errors.NewInfrastructureError("role lookup failed", roleErr)
		}
	}

	if v.cache != nil && session.Usable(v.now()) && user.IsActive {
		if cacheErr := v.cache.Set(ctx, token, &cache.SessionEntry{Session: session, User: user}); cacheErr != nil {
			log.Warn().Err(cacheErr).Msg("failed to cache validated session")
		}
	}

	return session, user, nil
}

// Ensure interface compliance
var _ TokenValidator = (*SessionTokenValidator)(nil)
