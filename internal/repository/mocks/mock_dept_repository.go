package mocks

import (
	"context"

	"adminapi/internal/model"
	"adminapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDeptRepository struct {
	mock.Mock
}

var _ repository.DeptRepository = (*MockDeptRepository)(nil)

func (m *MockDeptRepository) Create(ctx context.Context, d *model.Dept) (*model.Dept, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dept), args.Error(1)
}

func (m *MockDeptRepository) FindByID(ctx context.Context, id int64) (*model.Dept, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dept), args.Error(1)
}

func (m *MockDeptRepository) FindByName(ctx context.Context, name string) (*model.Dept, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dept), args.Error(1)
}

func (m *MockDeptRepository) List(ctx context.Context, f repository.DeptFilter) ([]model.Dept, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Dept), args.Error(1)
}

func (m *MockDeptRepository) Update(ctx context.Context, d *model.Dept) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeptRepository) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeptRepository) CountChildren(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockDeptRepository) CountUsers(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
