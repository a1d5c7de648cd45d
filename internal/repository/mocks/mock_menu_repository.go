package mocks

import (
	"context"

	"adminapi/internal/model"
	"adminapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockMenuRepository struct {
	mock.Mock
}

var _ repository.MenuRepository = (*MockMenuRepository)(nil)

func (m *MockMenuRepository) Create(ctx context.Context, m2 *model.Menu) (*model.Menu, error) {
	args := m.Called(ctx, m2)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Menu), args.Error(1)
}

func (m *MockMenuRepository) FindByID(ctx context.Context, id int64) (*model.Menu, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Menu), args.Error(1)
}

func (m *MockMenuRepository) FindByTitle(ctx context.Context, title string) (*model.Menu, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Menu), args.Error(1)
}

func (m *MockMenuRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Menu, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Menu), args.Error(1)
}

func (m *MockMenuRepository) List(ctx context.Context, f repository.MenuFilter) ([]model.Menu, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Menu), args.Error(1)
}

func (m *MockMenuRepository) ListByRoles(ctx context.Context, roleIDs []int64) ([]model.Menu, error) {
	args := m.Called(ctx, roleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Menu), args.Error(1)
}

func (m *MockMenuRepository) Update(ctx context.Context, m2 *model.Menu) error {
	args := m.Called(ctx, m2)
	return args.Error(0)
}

func (m *MockMenuRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMenuRepository) CountChildren(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
