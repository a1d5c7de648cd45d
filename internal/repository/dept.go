package repository

import (
	"context"

	"adminapi/internal/model"
)

// DeptRepository defines data access for departments.
// Soft-deleted rows are invisible to every read.
type DeptRepository interface {
	Create(ctx context.Context, d *model.Dept) (*model.Dept, error)
	FindByID(ctx context.Context, id int64) (*model.Dept, error)
	FindByName(ctx context.Context, name string) (*model.Dept, error)
	// List returns departments ordered by sort then id.
	List(ctx context.Context, f DeptFilter) ([]model.Dept, error)
	// Update writes every mutable column and stamps updated_time.
	Update(ctx context.Context, d *model.Dept) error
	// SoftDelete sets del_flag on the row.
	SoftDelete(ctx context.Context, id int64) error
	CountChildren(ctx context.Context, id int64) (int, error)
	CountUsers(ctx context.Context, id int64) (int, error)
}
