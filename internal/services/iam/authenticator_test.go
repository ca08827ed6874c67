package iam

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskrelay/taskrelay/internal/db/models"
	"github.com/taskrelay/taskrelay/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListAdmins(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestAuthenticator_Authenticate(t *testing.T) {
	ctx := context.Background()

	stored := &models.User{Username: "alice", Password: "wonderland", IsAdmin: false}

	t.Run("correct credentials produce a principal", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", ctx, "alice").Return(stored, nil)

		principal, err := NewAuthenticator(users).Authenticate(ctx, "alice", "wonderland")
		require.NoError(t, err)
		assert.Equal(t, "alice", principal.Username)
		assert.False(t, principal.IsAdmin)
	})

	t.Run("admin flag carries into the principal", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", ctx, "bob").
			Return(&models.User{Username: "bob", Password: "builder", IsAdmin: true}, nil)

		principal, err := NewAuthenticator(users).Authenticate(ctx, "bob", "builder")
		require.NoError(t, err)
		assert.True(t, principal.IsAdmin)
		assert.Equal(t, RoleAdmin, principal.Role())
	})

	t.Run("wrong password fails", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", ctx, "alice").Return(stored, nil)

		principal, err := NewAuthenticator(users).Authenticate(ctx, "alice", "Wonderland")
		assert.Nil(t, principal)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("password prefix does not match", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", ctx, "alice").Return(stored, nil)

		_, err := NewAuthenticator(users).Authenticate(ctx, "alice", "wonder")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user is indistinguishable from wrong password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", ctx, "eve").Return(nil, repository.ErrNotFound)
		users.On("GetByUsername", ctx, "alice").Return(stored, nil)

		auth := NewAuthenticator(users)

		_, unknownErr := auth.Authenticate(ctx, "eve", "whatever")
		_, wrongPassErr := auth.Authenticate(ctx, "alice", "not-wonderland")

		assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
		assert.Equal(t, unknownErr, wrongPassErr)
	})

	t.Run("store failure is not reported as bad credentials", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", ctx, "alice").Return(nil, errors.New("connection refused"))

		_, err := NewAuthenticator(users).Authenticate(ctx, "alice", "wonderland")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}
