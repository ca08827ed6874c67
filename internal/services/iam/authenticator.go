package iam

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/taskrelay/taskrelay/internal/repository"
)

// Authenticator verifies username/password credentials against stored user
// records and produces a Principal.
//
// The stored secret is compared in constant time over its length to avoid
// timing side channels. Credentials are stored and compared raw; that is
// the inherited external contract (byte-for-byte match) and is unsuitable
// for any production deployment.
//
// Authenticate is read-only against the store.
type Authenticator struct {
	users repository.UserRepository
}

// NewAuthenticator constructs an Authenticator over the given user store.
func NewAuthenticator(users repository.UserRepository) *Authenticator {
	return &Authenticator{users: users}
}

// Authenticate validates the supplied credentials.
//
// Return values:
//   - (principal, nil): authentication successful
//   - (nil, ErrInvalidCredentials): unknown username or wrong password,
//     indistinguishable by design
//   - (nil, other error): the store could not be reached
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*Principal, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate %q: %w", username, err)
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}

	return &Principal{Username: user.Username, IsAdmin: user.IsAdmin}, nil
}
