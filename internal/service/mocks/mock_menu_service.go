package mocks

import (
	"context"

	"adminapi/internal/model"
	"adminapi/internal/schema"
	"adminapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockMenuService struct {
	mock.Mock
}

var _ service.MenuService = (*MockMenuService)(nil)

func (m *MockMenuService) Create(ctx context.Context, in schema.CreateMenuParam) (*model.Menu, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Menu), args.Error(1)
}

func (m *MockMenuService) Get(ctx context.Context, id int64) (*model.Menu, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Menu), args.Error(1)
}

func (m *MockMenuService) Tree(ctx context.Context, p schema.MenuListParams) ([]*schema.MenuTreeNode, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schema.MenuTreeNode), args.Error(1)
}

func (m *MockMenuService) Sidebar(ctx context.Context, u *model.UserDetail) ([]*schema.MenuTreeNode, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schema.MenuTreeNode), args.Error(1)
}

func (m *MockMenuService) Update(ctx context.Context, id int64, in schema.UpdateMenuParam) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

func (m *MockMenuService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
