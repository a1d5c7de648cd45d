package repository

import (
	"context"
	"time"

	"adminapi/internal/model"
)

// UserRepository defines data access for users and their role links.
type UserRepository interface {
	// Create inserts the user and links roleIDs in one transaction.
	Create(ctx context.Context, u *model.User, roleIDs []int64) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindDetail loads the user with its department, roles and the menus of those roles.
	FindDetail(ctx context.Context, id int64) (*model.UserDetail, error)
	// List returns a page of users ordered by join time, newest first.
	List(ctx context.Context, f UserFilter, pq PageQuery) (*PageResult[model.User], error)
	// UpdateProfile writes username, nickname, email, phone and dept.
	UpdateProfile(ctx context.Context, u *model.User) error
	// UpdateFlags writes status, is_superuser, is_staff and is_multi_login.
	UpdateFlags(ctx context.Context, u *model.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateAvatar(ctx context.Context, id int64, avatar *string) error
	UpdateLoginTime(ctx context.Context, id int64, at time.Time) error
	// SetRoles replaces the user's role links.
	SetRoles(ctx context.Context, userID int64, roleIDs []int64) error
	// Delete removes the user and its role links.
	Delete(ctx context.Context, id int64) error
}
