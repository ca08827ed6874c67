package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/taskrelay/taskrelay/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20260829000001, down_20260829000001)
}

// up_20260829000001 creates the users and assignments tables.
func up_20260829000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating users table...")
	_, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating assignments table...")
	_, err = db.NewCreateTable().
		Model((*models.Assignment)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create assignments table: %w", err)
	}

	// Assignment listing and the conditional accept/reject update both
	// filter on the admin column.
	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_assignments_admin ON assignments(admin)`)
	if err != nil {
		return fmt.Errorf("failed to create index on assignments(admin): %w", err)
	}

	// SQLite does not support ADD CONSTRAINT in ALTER TABLE; the status
	// domain is enforced in code there.
	if db.Dialect().Name() == dialect.PG {
		_, err = db.ExecContext(ctx, `
			ALTER TABLE assignments
			ADD CONSTRAINT assignments_status_check CHECK (status IN ('pending', 'accepted', 'rejected'))
		`)
		if err != nil {
			return fmt.Errorf("failed to add status check constraint: %w", err)
		}
	}
	fmt.Println(" OK")

	return nil
}

// down_20260829000001 drops both tables.
func down_20260829000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] dropping assignments table...")
	if _, err := db.NewDropTable().Model((*models.Assignment)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to drop assignments table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [down] dropping users table...")
	if _, err := db.NewDropTable().Model((*models.User)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to drop users table: %w", err)
	}
	fmt.Println(" OK")

	return nil
}
