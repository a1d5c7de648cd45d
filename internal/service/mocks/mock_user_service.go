package mocks

import (
	"context"
	"io"

	"adminapi/internal/model"
	"adminapi/internal/repository"
	"adminapi/internal/schema"
	"adminapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Create(ctx context.Context, in schema.AddUserParam) (*model.UserDetail, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserDetail), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id int64) (*model.UserDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserDetail), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, p schema.UserListParams) (*repository.PageResult[model.User], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.User]), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id int64, in schema.UpdateUserParam) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

func (m *MockUserService) SetRoles(ctx context.Context, id int64, roleIDs []int64) error {
	args := m.Called(ctx, id, roleIDs)
	return args.Error(0)
}

func (m *MockUserService) ChangePassword(ctx context.Context, current *model.UserDetail, in schema.ResetPasswordParam) error {
	args := m.Called(ctx, current, in)
	return args.Error(0)
}

func (m *MockUserService) ResetPassword(ctx context.Context, id int64, password string) error {
	args := m.Called(ctx, id, password)
	return args.Error(0)
}

func (m *MockUserService) TogglePermission(ctx context.Context, current *model.UserDetail, id int64, kind, keepToken string) error {
	args := m.Called(ctx, current, id, kind, keepToken)
	return args.Error(0)
}

func (m *MockUserService) UploadAvatar(ctx context.Context, current *model.UserDetail, r io.Reader, contentType string, size int64) (string, error) {
	args := m.Called(ctx, current, r, contentType, size)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) ResolveAvatar(ctx context.Context, info *schema.GetUserInfo) {
	m.Called(ctx, info)
}

func (m *MockUserService) Delete(ctx context.Context, current *model.UserDetail, id int64) error {
	args := m.Called(ctx, current, id)
	return args.Error(0)
}
