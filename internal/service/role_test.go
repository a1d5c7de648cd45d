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

func TestRoleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRoles, mMenus := new(repoMocks.MockRoleRepository), new(repoMocks.MockMenuRepository)
		svc := NewRoleService(mRoles, mMenus)
		mRoles.On("FindByName", ctx, "auditor").Return(nil, sql.ErrNoRows)
		mRoles.On("Create", ctx, mock.MatchedBy(func(r *model.Role) bool {
			return r.Name == "auditor" && r.DataScope == model.DataScopeCustom
		})).Return(&model.Role{ID: 2, Name: "auditor"}, nil)

		r, err := svc.Create(ctx, schema.CreateRoleParam{Name: "auditor", DataScope: 2, Status: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), r.ID)
		mRoles.AssertExpectations(t)
	})

	t.Run("duplicate from store", func(t *testing.T) {
		mRoles, mMenus := new(repoMocks.MockRoleRepository), new(repoMocks.MockMenuRepository)
		svc := NewRoleService(mRoles, mMenus)
		mRoles.On("FindByName", ctx, "auditor").Return(nil, sql.ErrNoRows)
		mRoles.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)

		_, err := svc.Create(ctx, schema.CreateRoleParam{Name: "auditor", DataScope: 2, Status: 1})
		assertKind(t, err, ErrConflict)
	})
}

func TestRoleService_Update(t *testing.T) {
	ctx := context.Background()
	mRoles, mMenus := new(repoMocks.MockRoleRepository), new(repoMocks.MockMenuRepository)
	svc := NewRoleService(mRoles, mMenus)
	mRoles.On("FindByID", ctx, int64(1)).Return(&model.Role{ID: 1, Name: "test"}, nil)
	mRoles.On("FindByName", ctx, "admin").Return(&model.Role{ID: 2, Name: "admin"}, nil)

	err := svc.Update(ctx, 1, schema.UpdateRoleParam{Name: "admin", DataScope: 1, Status: 1})
	assertKind(t, err, ErrConflict)
	mRoles.AssertExpectations(t)
}

func TestRoleService_SetMenus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		menuIDs    []int64
		setupMocks func(mRoles *repoMocks.MockRoleRepository, mMenus *repoMocks.MockMenuRepository)
		wantKind   error
	}{
		{
			name:    "happy path",
			menuIDs: []int64{1, 2},
			setupMocks: func(mRoles *repoMocks.MockRoleRepository, mMenus *repoMocks.MockMenuRepository) {
				mRoles.On("FindByID", ctx, int64(1)).Return(&model.Role{ID: 1}, nil)
				mMenus.On("FindByIDs", ctx, []int64{1, 2}).Return([]model.Menu{{ID: 1}, {ID: 2}}, nil)
				mRoles.On("SetMenus", ctx, int64(1), []int64{1, 2}).Return(nil)
			},
		},
		{
			name:    "clear menus",
			menuIDs: nil,
			setupMocks: func(mRoles *repoMocks.MockRoleRepository, mMenus *repoMocks.MockMenuRepository) {
				mRoles.On("FindByID", ctx, int64(1)).Return(&model.Role{ID: 1}, nil)
				mRoles.On("SetMenus", ctx, int64(1), []int64(nil)).Return(nil)
			},
		},
		{
			name:    "unknown menu",
			menuIDs: []int64{1, 99},
			setupMocks: func(mRoles *repoMocks.MockRoleRepository, mMenus *repoMocks.MockMenuRepository) {
				mRoles.On("FindByID", ctx, int64(1)).Return(&model.Role{ID: 1}, nil)
				mMenus.On("FindByIDs", ctx, []int64{1, 99}).Return([]model.Menu{{ID: 1}}, nil)
			},
			wantKind: ErrNotFound,
		},
		{
			name:    "unknown role",
			menuIDs: []int64{1},
			setupMocks: func(mRoles *repoMocks.MockRoleRepository, mMenus *repoMocks.MockMenuRepository) {
				mRoles.On("FindByID", ctx, int64(1)).Return(nil, sql.ErrNoRows)
			},
			wantKind: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRoles, mMenus := new(repoMocks.MockRoleRepository), new(repoMocks.MockMenuRepository)
			svc := NewRoleService(mRoles, mMenus)
			tt.setupMocks(mRoles, mMenus)

			err := svc.SetMenus(ctx, 1, tt.menuIDs)

			if tt.wantKind != nil {
				assertKind(t, err, tt.wantKind)
			} else {
				assert.NoError(t, err)
			}
			mRoles.AssertExpectations(t)
			mMenus.AssertExpectations(t)
		})
	}
}

func TestRoleService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes existing roles", func(t *testing.T) {
		mRoles := new(repoMocks.MockRoleRepository)
		svc := NewRoleService(mRoles, nil)
		mRoles.On("FindByIDs", ctx, []int64{2, 3}).Return([]model.Role{{ID: 2}, {ID: 3}}, nil)
		mRoles.On("Delete", ctx, []int64{2, 3}).Return(nil)

		require.NoError(t, svc.Delete(ctx, []int64{2, 3}))
		mRoles.AssertExpectations(t)
	})

	t.Run("unknown role", func(t *testing.T) {
		mRoles := new(repoMocks.MockRoleRepository)
		svc := NewRoleService(mRoles, nil)
		mRoles.On("FindByIDs", ctx, []int64{2, 3}).Return([]model.Role{{ID: 2}}, nil)

		err := svc.Delete(ctx, []int64{2, 3})
		assertKind(t, err, ErrNotFound)
		assert.Equal(t, "role 3 not found", err.Error())
	})
}

func TestRoleService_Get(t *testing.T) {
	ctx := context.Background()
	mRoles := new(repoMocks.MockRoleRepository)
	svc := NewRoleService(mRoles, nil)
	mRoles.On("FindDetail", ctx, int64(1)).Return(&model.RoleDetail{Role: model.Role{ID: 1}, Menus: []model.Menu{{ID: 4}}}, nil)
	mRoles.On("FindDetail", ctx, int64(8)).Return(nil, sql.ErrNoRows)

	r, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, r.MenuIDs())

	_, err = svc.Get(ctx, 8)
	assertKind(t, err, ErrNotFound)
}
