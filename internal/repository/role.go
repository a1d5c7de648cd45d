package repository

import (
	"context"

	"adminapi/internal/model"
)

// RoleRepository defines data access for roles and their menu links.
type RoleRepository interface {
	Create(ctx context.Context, r *model.Role) (*model.Role, error)
	FindByID(ctx context.Context, id int64) (*model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	// FindByIDs returns the existing roles among ids.
	FindByIDs(ctx context.Context, ids []int64) ([]model.Role, error)
	FindDetail(ctx context.Context, id int64) (*model.RoleDetail, error)
	List(ctx context.Context, f RoleFilter, pq PageQuery) (*PageResult[model.Role], error)
	All(ctx context.Context) ([]model.Role, error)
	Update(ctx context.Context, r *model.Role) error
	// SetMenus replaces the role's menu links.
	SetMenus(ctx context.Context, roleID int64, menuIDs []int64) error
	// Delete removes the roles with their user and menu links.
	Delete(ctx context.Context, ids []int64) error
}
