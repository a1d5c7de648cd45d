package mocks

import (
	"context"

	"adminapi/internal/model"
	"adminapi/internal/schema"
	"adminapi/internal/security"
	"adminapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

var _ service.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) Login(ctx context.Context, in schema.AuthLoginParam) (*service.LoginResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, u *model.UserDetail, accessToken, refreshToken string) error {
	args := m.Called(ctx, u, accessToken, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (security.TokenPair, error) {
	args := m.Called(ctx, accessToken, refreshToken)
	return args.Get(0).(security.TokenPair), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*model.UserDetail, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserDetail), args.Error(1)
}
