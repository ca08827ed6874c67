package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/taskrelay/taskrelay/internal/db/models"
)

// BunUserRepository implements UserRepository using Bun ORM
type BunUserRepository struct {
	db *bun.DB
}

// NewBunUserRepository creates a new Bun-based user repository
func NewBunUserRepository(db *bun.DB) *BunUserRepository {
	return &BunUserRepository{db: db}
}

// Create inserts a new user record. The record is stored verbatim,
// including the caller-supplied admin flag.
func (r *BunUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.db.NewInsert().
		Model(user).
		Exec(ctx)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user %q: %w", user.Username, ErrDuplicateUsername)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by exact, case-sensitive username match.
func (r *BunUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

// ListAdmins returns the usernames of all admin users, newest first.
func (r *BunUserRepository) ListAdmins(ctx context.Context) ([]string, error) {
	var usernames []string
	err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Column("username").
		Where("is_admin = ?", true).
		Order("created_at DESC").
		Scan(ctx, &usernames)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}

	if usernames == nil {
		usernames = []string{}
	}
	return usernames, nil
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "23505")
}
