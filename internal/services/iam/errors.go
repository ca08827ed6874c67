package iam

import "errors"

var (
	// ErrInvalidCredentials is returned for every authentication failure.
	// An unknown username and a wrong password deliberately produce this
	// same error so callers cannot enumerate registered usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrForbidden is returned when an authenticated principal is not
	// permitted to perform the requested action.
	ErrForbidden = errors.New("forbidden")

	// ErrUsernameTaken is returned when registering an already-registered
	// username.
	ErrUsernameTaken = errors.New("username already registered")
)
