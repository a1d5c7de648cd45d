package repository

import (
	"context"

	"adminapi/internal/model"
)

// MenuRepository defines data access for menus.
type MenuRepository interface {
	Create(ctx context.Context, m *model.Menu) (*model.Menu, error)
	FindByID(ctx context.Context, id int64) (*model.Menu, error)
	FindByTitle(ctx context.Context, title string) (*model.Menu, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Menu, error)
	// List returns menus ordered by sort then id.
	List(ctx context.Context, f MenuFilter) ([]model.Menu, error)
	// ListByRoles returns the distinct enabled menus granted to any of roleIDs.
	ListByRoles(ctx context.Context, roleIDs []int64) ([]model.Menu, error)
	Update(ctx context.Context, m *model.Menu) error
	Delete(ctx context.Context, id int64) error
	CountChildren(ctx context.Context, id int64) (int, error)
}
