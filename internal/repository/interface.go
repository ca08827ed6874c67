package repository

import (
	"context"
	"errors"

	"github.com/taskrelay/taskrelay/internal/db/models"
)

var (
	// ErrNotFound is returned when a lookup or conditional update matches
	// no record. For assignment transitions this deliberately covers three
	// indistinguishable cases: the record does not exist, it is addressed
	// to a different admin, or it was already decided.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUsername is returned when an insert violates the unique
	// username constraint.
	ErrDuplicateUsername = errors.New("username already registered")
)

// UserRepository exposes persistence operations for user records.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListAdmins(ctx context.Context) ([]string, error)
}

// AssignmentRepository exposes persistence operations for assignments.
//
// UpdateStatus is the sole transition primitive: a single conditional
// update matching (id, admin, status=pending). The database round trip is
// the serialization point for concurrent accept/reject races.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	ListByAdmin(ctx context.Context, admin string) ([]models.Assignment, error)
	UpdateStatus(ctx context.Context, id, admin string, status models.AssignmentStatus) error
}
