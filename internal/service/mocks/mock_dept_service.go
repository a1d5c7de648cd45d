package mocks

import (
	"context"

	"adminapi/internal/model"
	"adminapi/internal/schema"
	"adminapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDeptService struct {
	mock.Mock
}

var _ service.DeptService = (*MockDeptService)(nil)

func (m *MockDeptService) Create(ctx context.Context, in schema.CreateDeptParam) (*model.Dept, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dept), args.Error(1)
}

func (m *MockDeptService) Get(ctx context.Context, id int64) (*model.Dept, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dept), args.Error(1)
}

func (m *MockDeptService) Tree(ctx context.Context, p schema.DeptListParams) ([]*schema.DeptTreeNode, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schema.DeptTreeNode), args.Error(1)
}

func (m *MockDeptService) Update(ctx context.Context, id int64, in schema.UpdateDeptParam) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

func (m *MockDeptService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
