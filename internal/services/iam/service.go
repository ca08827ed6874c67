package iam

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskrelay/taskrelay/internal/db/models"
	"github.com/taskrelay/taskrelay/internal/repository"
)

// Service handles user registration and admin discovery.
type Service struct {
	users repository.UserRepository
}

// NewService constructs a new Service instance.
func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

// Register creates a new user record. The username must be unused
// (case-sensitive); the unique constraint on the store makes the
// existence check and the insert a single atomic step.
//
// The caller-supplied isAdmin flag is stored verbatim for compatibility
// with the inherited registration contract. Deployments that do not want
// self-declared admins should reject the flag at the edge and create
// admins via the privileged CLI path instead.
func (s *Service) Register(ctx context.Context, username, password string, isAdmin bool) error {
	user := &models.User{
		Username: username,
		Password: password,
		IsAdmin:  isAdmin,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return fmt.Errorf("register %q: %w", username, ErrUsernameTaken)
		}
		return fmt.Errorf("register user: %w", err)
	}

	return nil
}

// ListAdmins returns the usernames of all admin users. Any authenticated
// principal may call this.
func (s *Service) ListAdmins(ctx context.Context) ([]string, error) {
	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}
