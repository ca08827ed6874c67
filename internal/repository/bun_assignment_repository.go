package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/taskrelay/taskrelay/internal/db/models"
)

// BunAssignmentRepository persists assignments using Bun ORM.
type BunAssignmentRepository struct {
	db *bun.DB
}

// NewBunAssignmentRepository constructs a repository backed by Bun.
func NewBunAssignmentRepository(db *bun.DB) *BunAssignmentRepository {
	return &BunAssignmentRepository{db: db}
}

// Create inserts a new assignment row. The identifier is generated here and
// returned to callers through the model; status always starts pending.
func (r *BunAssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	assignment.Status = models.StatusPending
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now()
	}

	_, err := r.db.NewInsert().Model(assignment).Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}

	return nil
}

// ListByAdmin returns all assignments addressed to the given admin, newest
// first.
func (r *BunAssignmentRepository) ListByAdmin(ctx context.Context, admin string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.NewSelect().
		Model(&assignments).
		Where("admin = ?", admin).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return assignments, nil
}

// UpdateStatus performs the conditional transition update. The filter
// matches the record id, the acting admin, and the pending status in one
// statement, so ownership and the single-transition invariant are checked
// and applied atomically. Zero matched rows surface as ErrNotFound without
// revealing which condition failed.
func (r *BunAssignmentRepository) UpdateStatus(ctx context.Context, id, admin string, status models.AssignmentStatus) error {
	result, err := r.db.NewUpdate().
		Model((*models.Assignment)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Where("admin = ?", admin).
		Where("status = ?", models.StatusPending).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update assignment status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("assignment %q: %w", id, ErrNotFound)
	}

	return nil
}
