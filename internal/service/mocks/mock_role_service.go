package mocks

import (
	"context"

	"adminapi/internal/model"
	"adminapi/internal/repository"
	"adminapi/internal/schema"
	"adminapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockRoleService struct {
	mock.Mock
}

var _ service.RoleService = (*MockRoleService)(nil)

func (m *MockRoleService) Create(ctx context.Context, in schema.CreateRoleParam) (*model.Role, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRoleService) Get(ctx context.Context, id int64) (*model.RoleDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoleDetail), args.Error(1)
}

func (m *MockRoleService) List(ctx context.Context, p schema.RoleListParams) (*repository.PageResult[model.Role], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Role]), args.Error(1)
}

func (m *MockRoleService) All(ctx context.Context) ([]model.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *MockRoleService) Update(ctx context.Context, id int64, in schema.UpdateRoleParam) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

func (m *MockRoleService) SetMenus(ctx context.Context, id int64, menuIDs []int64) error {
	args := m.Called(ctx, id, menuIDs)
	return args.Error(0)
}

func (m *MockRoleService) Delete(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}
