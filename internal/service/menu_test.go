package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adminapi/internal/model"
	"adminapi/internal/repository"
	repoMocks "adminapi/internal/repository/mocks"
	"adminapi/internal/schema"
)

func sidebarMenus() []model.Menu {
	return []model.Menu{
		{ID: 1, Title: "System", MenuType: model.MenuTypeDirectory, Status: 1},
		{ID: 2, Title: "Users", MenuType: model.MenuTypeMenu, ParentID: ptr(int64(1)), Status: 1},
		{ID: 3, Title: "Add", MenuType: model.MenuTypeButton, ParentID: ptr(int64(2)), Perms: ptr("sys:user:add"), Status: 1},
	}
}

func TestMenuService_Sidebar(t *testing.T) {
	ctx := context.Background()
	enabled := model.StatusEnabled

	t.Run("superuser sees every enabled menu", func(t *testing.T) {
		m := new(repoMocks.MockMenuRepository)
		svc := NewMenuService(m)
		m.On("List", ctx, repository.MenuFilter{Status: &enabled}).Return(sidebarMenus(), nil)

		tree, err := svc.Sidebar(ctx, &model.UserDetail{User: model.User{IsSuperuser: true}})
		require.NoError(t, err)
		require.Len(t, tree, 1)
		require.Len(t, tree[0].Children, 1)
		assert.Empty(t, tree[0].Children[0].Children, "buttons are not navigation entries")
		m.AssertExpectations(t)
	})

	t.Run("role user sees menus of enabled roles", func(t *testing.T) {
		m := new(repoMocks.MockMenuRepository)
		svc := NewMenuService(m)
		m.On("ListByRoles", ctx, []int64{1}).Return(sidebarMenus()[:2], nil)

		u := &model.UserDetail{Roles: []model.RoleDetail{
			{Role: model.Role{ID: 1, Status: model.StatusEnabled}},
			{Role: model.Role{ID: 2, Status: model.StatusDisabled}},
		}}
		tree, err := svc.Sidebar(ctx, u)
		require.NoError(t, err)
		require.Len(t, tree, 1)
		assert.Equal(t, "System", tree[0].Title)
		m.AssertExpectations(t)
	})

	t.Run("no roles", func(t *testing.T) {
		m := new(repoMocks.MockMenuRepository)
		svc := NewMenuService(m)

		tree, err := svc.Sidebar(ctx, &model.UserDetail{})
		require.NoError(t, err)
		assert.Empty(t, tree)
		m.AssertNotCalled(t, "ListByRoles", mock.Anything, mock.Anything)
	})
}

func TestMenuService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("title taken", func(t *testing.T) {
		m := new(repoMocks.MockMenuRepository)
		svc := NewMenuService(m)
		m.On("FindByTitle", ctx, "Users").Return(&model.Menu{ID: 2}, nil)

		_, err := svc.Create(ctx, schema.CreateMenuParam{Title: "Users", Name: "users"})
		assertKind(t, err, ErrConflict)
	})

	t.Run("happy path", func(t *testing.T) {
		m := new(repoMocks.MockMenuRepository)
		svc := NewMenuService(m)
		m.On("FindByTitle", ctx, "Audit").Return(nil, sql.ErrNoRows)
		m.On("FindByID", ctx, int64(1)).Return(&model.Menu{ID: 1}, nil)
		m.On("Create", ctx, mock.MatchedBy(func(menu *model.Menu) bool {
			return menu.Title == "Audit" && menu.MenuType == model.MenuTypeMenu
		})).Return(&model.Menu{ID: 30, Title: "Audit"}, nil)

		menu, err := svc.Create(ctx, schema.CreateMenuParam{Title: "Audit", Name: "audit", MenuType: 1, ParentID: ptr(int64(1)), Status: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(30), menu.ID)
		m.AssertExpectations(t)
	})
}

func TestMenuService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("own parent", func(t *testing.T) {
		m := new(repoMocks.MockMenuRepository)
		svc := NewMenuService(m)
		m.On("FindByID", ctx, int64(2)).Return(&model.Menu{ID: 2, Title: "Users"}, nil)

		err := svc.Update(ctx, 2, schema.UpdateMenuParam{Title: "Users", Name: "users", ParentID: ptr(int64(2))})
		assertKind(t, err, ErrBadRequest)
	})

	t.Run("under its own sub-menu", func(t *testing.T) {
		m := new(repoMocks.MockMenuRepository)
		svc := NewMenuService(m)
		m.On("FindByID", ctx, int64(3)).Return(&model.Menu{ID: 3, Title: "System"}, nil)
		m.On("FindByID", ctx, int64(8)).Return(&model.Menu{ID: 8, Title: "Users", ParentID: ptr(int64(3))}, nil)

		err := svc.Update(ctx, 3, schema.UpdateMenuParam{Title: "System", Name: "system", ParentID: ptr(int64(8))})
		assertKind(t, err, ErrBadRequest)
		m.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing parent", func(t *testing.T) {
		m := new(repoMocks.MockMenuRepository)
		svc := NewMenuService(m)
		m.On("FindByID", ctx, int64(3)).Return(&model.Menu{ID: 3, Title: "System"}, nil)
		m.On("FindByID", ctx, int64(99)).Return(nil, sql.ErrNoRows)

		err := svc.Update(ctx, 3, schema.UpdateMenuParam{Title: "System", Name: "system", ParentID: ptr(int64(99))})
		assertKind(t, err, ErrNotFound)
	})

	t.Run("move to another branch", func(t *testing.T) {
		m := new(repoMocks.MockMenuRepository)
		svc := NewMenuService(m)
		m.On("FindByID", ctx, int64(8)).Return(&model.Menu{ID: 8, Title: "Users", ParentID: ptr(int64(3))}, nil)
		m.On("FindByID", ctx, int64(4)).Return(&model.Menu{ID: 4, Title: "Monitor", ParentID: ptr(int64(1))}, nil)
		m.On("FindByID", ctx, int64(1)).Return(&model.Menu{ID: 1, Title: "Root"}, nil)
		m.On("Update", ctx, mock.MatchedBy(func(menu *model.Menu) bool {
			return menu.ID == 8 && menu.ParentID != nil && *menu.ParentID == 4
		})).Return(nil)

		err := svc.Update(ctx, 8, schema.UpdateMenuParam{Title: "Users", Name: "users", ParentID: ptr(int64(4))})
		require.NoError(t, err)
		m.AssertExpectations(t)
	})
}

func TestMenuService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("has children", func(t *testing.T) {
		m := new(repoMocks.MockMenuRepository)
		svc := NewMenuService(m)
		m.On("FindByID", ctx, int64(1)).Return(&model.Menu{ID: 1}, nil)
		m.On("CountChildren", ctx, int64(1)).Return(3, nil)

		assertKind(t, svc.Delete(ctx, 1), ErrConflict)
		m.AssertExpectations(t)
	})

	t.Run("leaf", func(t *testing.T) {
		m := new(repoMocks.MockMenuRepository)
		svc := NewMenuService(m)
		m.On("FindByID", ctx, int64(3)).Return(&model.Menu{ID: 3}, nil)
		m.On("CountChildren", ctx, int64(3)).Return(0, nil)
		m.On("Delete", ctx, int64(3)).Return(nil)

		require.NoError(t, svc.Delete(ctx, 3))
		m.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		m := new(repoMocks.MockMenuRepository)
		svc := NewMenuService(m)
		m.On("FindByID", ctx, int64(4)).Return(nil, sql.ErrNoRows)

		assertKind(t, svc.Delete(ctx, 4), ErrNotFound)
	})
}
