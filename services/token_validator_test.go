package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skyline-media/realtime-relay/domain"
	"github.com/skyline-media/realtime-relay/errors"
)

// --- Mock Implementations ---

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) GetSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) StoreSession(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) RevokeSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) ListSessionsByUserID(ctx context.Context, userID string, filter domain.SessionFilter) ([]*domain.Session, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetUserActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, pageToken string, pageSize int) ([]*domain.User, string, error) {
	args := m.Called(ctx, pageToken, pageSize)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]*domain.User), args.String(1), args.Error(2)
}

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) GetRoleWithPermissions(ctx context.Context, id string) (*domain.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

// --- Fixtures ---

func activeSession(token, userID string) *domain.Session {
	return &domain.Session{
		ID:        "sess-1",
		Token:     token,
		UserID:    userID,
		IsActive:  true,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now().Add(-time.Minute),
	}
}

func activeUser(id string) *domain.User {
	return &domain.User{
		ID:        id,
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		IsActive:  true,
	}
}

func requireAuthFailure(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	re, ok := errors.AsRelayError(err)
	require.True(t, ok)
	assert.Equal(t, errors.KindAuthentication, re.Kind)
	assert.Equal(t, message, re.Message)
}

// --- Tests ---

func TestValidateToken(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token fails with Invalid token", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		sessions.On("GetSessionByToken", ctx, "nope").Return(nil, domain.ErrSessionNotFound)

		v := NewSessionTokenValidator(sessions, new(MockUserRepository), new(MockRoleRepository), nil)
		user, err := v.ValidateToken(ctx, "nope")

		assert.Nil(t, user)
		requireAuthFailure(t, err, "Invalid token")
		sessions.AssertExpectations(t)
	})

	t.Run("inactive session fails with Token has been invalidated", func(t *testing.T) {
		session := activeSession("tok", "u-1")
		session.IsActive = false

		sessions := new(MockSessionRepository)
		sessions.On("GetSessionByToken", ctx, "tok").Return(session, nil)
		users := new(MockUserRepository)
		users.On("GetUserByID", ctx, "u-1").Return(activeUser("u-1"), nil)

		v := NewSessionTokenValidator(sessions, users, new(MockRoleRepository), nil)
		_, err := v.ValidateToken(ctx, "tok")

		requireAuthFailure(t, err, "Token has been invalidated")
	})

	t.Run("inactive session of inactive user still reports the session problem", func(t *testing.T) {
		session := activeSession("tok", "u-1")
		session.IsActive = false
		user := activeUser("u-1")
		user.IsActive = false

		sessions := new(MockSessionRepository)
		sessions.On("GetSessionByToken", ctx, "tok").Return(session, nil)
		users := new(MockUserRepository)
		users.On("GetUserByID", ctx, "u-1").Return(user, nil)

		v := NewSessionTokenValidator(sessions, users, new(MockRoleRepository), nil)
		_, err := v.ValidateToken(ctx, "tok")

		requireAuthFailure(t, err, "Token has been invalidated")
	})

	t.Run("expired session fails with Token has expired", func(t *testing.T) {
		session := activeSession("tok", "u-1")
		session.ExpiresAt = time.Now().Add(-time.Minute)

		sessions := new(MockSessionRepository)
		sessions.On("GetSessionByToken", ctx, "tok").Return(session, nil)
		users := new(MockUserRepository)
		users.On("GetUserByID", ctx, "u-1").Return(activeUser("u-1"), nil)

		v := NewSessionTokenValidator(sessions, users, new(MockRoleRepository), nil)
		_, err := v.ValidateToken(ctx, "tok")

		requireAuthFailure(t, err, "Token has expired")
	})

	t.Run("deactivated user fails with User account is deactivated", func(t *testing.T) {
		user := activeUser("u-1")
		user.IsActive = false

		sessions := new(MockSessionRepository)
		sessions.On("GetSessionByToken", ctx, "tok").Return(activeSession("tok", "u-1"), nil)
		users := new(MockUserRepository)
		users.On("GetUserByID", ctx, "u-1").Return(user, nil)

		v := NewSessionTokenValidator(sessions, users, new(MockRoleRepository), nil)
		_, err := v.ValidateToken(ctx, "tok")

		requireAuthFailure(t, err, "User account is deactivated")
	})

	t.Run("dangling user reference fails with Invalid token", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		sessions.On("GetSessionByToken", ctx, "tok").Return(activeSession("tok", "ghost"), nil)
		users := new(MockUserRepository)
		users.On("GetUserByID", ctx, "ghost").Return(nil, domain.ErrUserNotFound)

		v := NewSessionTokenValidator(sessions, users, new(MockRoleRepository), nil)
		_, err := v.ValidateToken(ctx, "tok")

		requireAuthFailure(t, err, "Invalid token")
	})

	t.Run("valid session returns user with role and permissions", func(t *testing.T) {
		user := activeUser("u-1")
		user.RoleID = "role-editor"
		role := &domain.Role{
			ID:            "role-editor",
			Name:          "editor",
			PermissionIDs: []string{"perm-1"},
			Permissions:   []*domain.Permission{{ID: "perm-1", Name: "pages.edit"}},
		}

		sessions := new(MockSessionRepository)
		sessions.On("GetSessionByToken", ctx, "tok").Return(activeSession("tok", "u-1"), nil)
		users := new(MockUserRepository)
		users.On("GetUserByID", ctx, "u-1").Return(user, nil)
		roles := new(MockRoleRepository)
		roles.On("GetRoleWithPermissions", ctx, "role-editor").Return(role, nil)

		v := NewSessionTokenValidator(sessions, users, roles, nil)
		got, err := v.ValidateToken(ctx, "tok")

		require.NoError(t, err)
		assert.Equal(t, "u-1", got.ID)
		require.NotNil(t, got.Role)
		assert.Equal(t, "editor", got.Role.Name)
		assert.Len(t, got.Role.Permissions, 1)
		roles.AssertExpectations(t)
	})

	t.Run("missing role is tolerated", func(t *testing.T) {
		user := activeUser("u-1")
		user.RoleID = "gone"

		sessions := new(MockSessionRepository)
		sessions.On("GetSessionByToken", ctx, "tok").Return(activeSession("tok", "u-1"), nil)
		users := new(MockUserRepository)
		users.On("GetUserByID", ctx, "u-1").Return(user, nil)
		roles := new(MockRoleRepository)
		roles.On("GetRoleWithPermissions", ctx, "gone").Return(nil, domain.ErrRoleNotFound)

		v := NewSessionTokenValidator(sessions, users, roles, nil)
		got, err := v.ValidateToken(ctx, "tok")

		require.NoError(t, err)
		assert.Nil(t, got.Role)
	})

	t.Run("store outage surfaces as infrastructure error", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		sessions.On("GetSessionByToken", ctx, "tok").Return(nil, fmt.Errorf("connection reset"))

		v := NewSessionTokenValidator(sessions, new(MockUserRepository), new(MockRoleRepository), nil)
		_, err := v.ValidateToken(ctx, "tok")

		require.Error(t, err)
		re, ok := errors.AsRelayError(err)
		require.True(t, ok)
		assert.Equal(t, errors.KindInfrastructure, re.Kind)
	})
}

func TestValidateTokenUsesCache(t *testing.T) {
	ctx := context.Background()

	sessions := new(MockSessionRepository)
	sessions.On("GetSessionByToken", ctx, "tok").Return(activeSession("tok", "u-1"), nil).Once()
	users := new(MockUserRepository)
	users.On("GetUserByID", ctx, "u-1").Return(activeUser("u-1"), nil).Once()

	v := NewSessionTokenValidator(sessions, users, new(MockRoleRepository), newStubCache())

	first, err := v.ValidateToken(ctx, "tok")
	require.NoError(t, err)
	second, err := v.ValidateToken(ctx, "tok")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// The second call must be served from cache: the repository expectations
	// above allow exactly one call each.
	sessions.AssertExpectations(t)
	users.AssertExpectations(t)
}
