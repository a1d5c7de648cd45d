package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adminapi/internal/model"
	"adminapi/internal/repository"
	repoMocks "adminapi/internal/repository/mocks"
	"adminapi/internal/schema"
)

func TestDeptService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         schema.CreateDeptParam
		setupMocks func(m *repoMocks.MockDeptRepository)
		wantKind   error
	}{
		{
			name: "happy path",
			in:   schema.CreateDeptParam{Name: "ops", ParentID: ptr(int64(1)), Status: 1},
			setupMocks: func(m *repoMocks.MockDeptRepository) {
				m.On("FindByName", ctx, "ops").Return(nil, sql.ErrNoRows)
				m.On("FindByID", ctx, int64(1)).Return(&model.Dept{ID: 1}, nil)
				m.On("Create", ctx, mock.MatchedBy(func(d *model.Dept) bool {
					return d.Name == "ops" && *d.ParentID == 1 && d.Status == 1
				})).Return(&model.Dept{ID: 2, Name: "ops"}, nil)
			},
		},
		{
			name: "name taken",
			in:   schema.CreateDeptParam{Name: "ops"},
			setupMocks: func(m *repoMocks.MockDeptRepository) {
				m.On("FindByName", ctx, "ops").Return(&model.Dept{ID: 4}, nil)
			},
			wantKind: ErrConflict,
		},
		{
			name: "missing parent",
			in:   schema.CreateDeptParam{Name: "ops", ParentID: ptr(int64(9))},
			setupMocks: func(m *repoMocks.MockDeptRepository) {
				m.On("FindByName", ctx, "ops").Return(nil, sql.ErrNoRows)
				m.On("FindByID", ctx, int64(9)).Return(nil, sql.ErrNoRows)
			},
			wantKind: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(repoMocks.MockDeptRepository)
			svc := NewDeptService(m)
			tt.setupMocks(m)

			d, err := svc.Create(ctx, tt.in)

			if tt.wantKind != nil {
				assertKind(t, err, tt.wantKind)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(2), d.ID)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestDeptService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("parent cannot be itself", func(t *testing.T) {
		m := new(repoMocks.MockDeptRepository)
		svc := NewDeptService(m)
		m.On("FindByID", ctx, int64(2)).Return(&model.Dept{ID: 2, Name: "ops"}, nil)

		err := svc.Update(ctx, 2, schema.UpdateDeptParam{Name: "ops", ParentID: ptr(int64(2))})
		assertKind(t, err, ErrBadRequest)
	})

	t.Run("parent cannot be a descendant", func(t *testing.T) {
		m := new(repoMocks.MockDeptRepository)
		svc := NewDeptService(m)
		m.On("FindByID", ctx, int64(2)).Return(&model.Dept{ID: 2, Name: "ops"}, nil)
		m.On("FindByID", ctx, int64(5)).Return(&model.Dept{ID: 5, ParentID: ptr(int64(4))}, nil)
		m.On("FindByID", ctx, int64(4)).Return(&model.Dept{ID: 4, ParentID: ptr(int64(2))}, nil)

		err := svc.Update(ctx, 2, schema.UpdateDeptParam{Name: "ops", ParentID: ptr(int64(5))})
		assertKind(t, err, ErrBadRequest)
		m.AssertExpectations(t)
	})

	t.Run("rename and move", func(t *testing.T) {
		m := new(repoMocks.MockDeptRepository)
		svc := NewDeptService(m)
		m.On("FindByID", ctx, int64(2)).Return(&model.Dept{ID: 2, Name: "ops"}, nil)
		m.On("FindByName", ctx, "platform").Return(nil, sql.ErrNoRows)
		m.On("FindByID", ctx, int64(1)).Return(&model.Dept{ID: 1}, nil)
		m.On("Update", ctx, mock.MatchedBy(func(d *model.Dept) bool {
			return d.ID == 2 && d.Name == "platform" && *d.ParentID == 1
		})).Return(nil)

		require.NoError(t, svc.Update(ctx, 2, schema.UpdateDeptParam{Name: "platform", ParentID: ptr(int64(1)), Status: 1}))
		m.AssertExpectations(t)
	})
}

func TestDeptService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(m *repoMocks.MockDeptRepository)
		wantKind   error
		wantErr    string
	}{
		{
			name: "happy path",
			setupMocks: func(m *repoMocks.MockDeptRepository) {
				m.On("FindByID", ctx, int64(3)).Return(&model.Dept{ID: 3}, nil)
				m.On("CountUsers", ctx, int64(3)).Return(0, nil)
				m.On("CountChildren", ctx, int64(3)).Return(0, nil)
				m.On("SoftDelete", ctx, int64(3)).Return(nil)
			},
		},
		{
			name: "has users",
			setupMocks: func(m *repoMocks.MockDeptRepository) {
				m.On("FindByID", ctx, int64(3)).Return(&model.Dept{ID: 3}, nil)
				m.On("CountUsers", ctx, int64(3)).Return(2, nil)
			},
			wantKind: ErrConflict,
		},
		{
			name: "has children",
			setupMocks: func(m *repoMocks.MockDeptRepository) {
				m.On("FindByID", ctx, int64(3)).Return(&model.Dept{ID: 3}, nil)
				m.On("CountUsers", ctx, int64(3)).Return(0, nil)
				m.On("CountChildren", ctx, int64(3)).Return(1, nil)
			},
			wantKind: ErrConflict,
		},
		{
			name: "count failure",
			setupMocks: func(m *repoMocks.MockDeptRepository) {
				m.On("FindByID", ctx, int64(3)).Return(&model.Dept{ID: 3}, nil)
				m.On("CountUsers", ctx, int64(3)).Return(0, errors.New("db down"))
			},
			wantErr: "db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(repoMocks.MockDeptRepository)
			svc := NewDeptService(m)
			tt.setupMocks(m)

			err := svc.Delete(ctx, 3)

			switch {
			case tt.wantKind != nil:
				assertKind(t, err, tt.wantKind)
			case tt.wantErr != "":
				assert.EqualError(t, err, tt.wantErr)
			default:
				assert.NoError(t, err)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestDeptService_Tree(t *testing.T) {
	ctx := context.Background()
	m := new(repoMocks.MockDeptRepository)
	svc := NewDeptService(m)
	m.On("List", ctx, repository.DeptFilter{Name: "te"}).Return([]model.Dept{
		{ID: 1, Name: "test"},
		{ID: 2, Name: "team", ParentID: ptr(int64(1))},
	}, nil)

	tree, err := svc.Tree(ctx, schema.DeptListParams{Name: "te"})
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "team", tree[0].Children[0].Name)
}
