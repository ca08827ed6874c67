// Package assignment implements the assignment lifecycle: non-admin users
// submit assignments addressed to a named admin, and only that admin may
// decide them. Status moves pending -> accepted | rejected exactly once.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskrelay/taskrelay/internal/db/models"
	"github.com/taskrelay/taskrelay/internal/repository"
	"github.com/taskrelay/taskrelay/internal/services/iam"
)

var (
	// ErrNotFound is returned when a decide call matches no assignment.
	// An absent record, one addressed to a different admin, and one that
	// was already decided are deliberately indistinguishable.
	ErrNotFound = errors.New("assignment not found or not assigned to you")

	// ErrInvalidStatus is returned when a transition targets anything
	// other than accepted or rejected.
	ErrInvalidStatus = errors.New("target status must be accepted or rejected")
)

// Service orchestrates assignment persistence behind the authorization
// policy.
type Service struct {
	repo  repository.AssignmentRepository
	authz *iam.Authorizer
	now   func() time.Time
}

// NewService constructs a new Service instance.
func NewService(repo repository.AssignmentRepository, authz *iam.Authorizer) *Service {
	return &Service{repo: repo, authz: authz, now: time.Now}
}

// WithClock overrides the creation timestamp source (used in tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Upload creates a pending assignment submitted by the authenticated
// principal and addressed to the named admin.
//
// Admins cannot submit. The submitter identity recorded on the assignment
// is always the principal's username; any client-supplied value is
// discarded. The target admin is not validated to reference an existing
// or admin user, matching the inherited contract.
func (s *Service) Upload(ctx context.Context, p *iam.Principal, task, admin string) (*models.Assignment, error) {
	if err := s.authz.Authorize(p, iam.ObjectAssignment, iam.ActionSubmit); err != nil {
		return nil, err
	}

	record := &models.Assignment{
		UserID:    p.Username,
		Task:      task,
		Admin:     admin,
		Status:    models.StatusPending,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("upload assignment: %w", err)
	}

	return record, nil
}

// ListForAdmin returns the assignments addressed to the authenticated
// admin. Other admins' assignments are never visible.
func (s *Service) ListForAdmin(ctx context.Context, p *iam.Principal) ([]models.Assignment, error) {
	if err := s.authz.Authorize(p, iam.ObjectAssignment, iam.ActionList); err != nil {
		return nil, err
	}

	assignments, err := s.repo.ListByAdmin(ctx, p.Username)
	if err != nil {
		return nil, fmt.Errorf("list assignments for %q: %w", p.Username, err)
	}
	return assignments, nil
}

// Decide transitions the assignment to accepted or rejected. The store
// update matches the record id, the acting admin, and the pending status
// in a single conditional write, so ownership cannot change between check
// and update and a decided assignment cannot be decided again.
func (s *Service) Decide(ctx context.Context, p *iam.Principal, id string, status models.AssignmentStatus) error {
	if !status.Terminal() {
		return fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}

	if err := s.authz.Authorize(p, iam.ObjectAssignment, iam.ActionDecide); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, p.Username, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("decide assignment %q: %w", id, ErrNotFound)
		}
		return fmt.Errorf("decide assignment: %w", err)
	}

	return nil
}
