package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"adminapi/internal/logging"
	"adminapi/internal/model"
	"adminapi/internal/repository"
	"adminapi/internal/schema"
	"adminapi/internal/security"
	"adminapi/internal/timeutil"
)

// TokenManager issues and revokes tokens. *security.JWT satisfies it.
type TokenManager interface {
	CreateTokenPair(ctx context.Context, sub int64, multiLogin bool) (security.TokenPair, error)
	CreateNewToken(ctx context.Context, sub int64, accessToken, refreshToken string, multiLogin bool) (security.TokenPair, error)
	Decode(token string) (int64, error)
	Authenticate(ctx context.Context, token string) (int64, error)
	Revoke(ctx context.Context, sub int64, accessToken, refreshToken string) error
	RevokeAll(ctx context.Context, sub int64, keep ...string) error
}

var errBadCredentials = newError(ErrUnauthorized, "incorrect username or password")

// LoginResult is a signed-in user with the issued tokens.
type LoginResult struct {
	Tokens security.TokenPair
	User   *model.UserDetail
}

// AuthService signs users in and out and resolves tokens to users.
type AuthService interface {
	Login(ctx context.Context, in schema.AuthLoginParam) (*LoginResult, error)
	// Logout revokes the given tokens, or every token of a single-login user.
	Logout(ctx context.Context, u *model.UserDetail, accessToken, refreshToken string) error
	// Refresh exchanges a refresh token for a new pair. accessToken may be empty.
	Refresh(ctx context.Context, accessToken, refreshToken string) (security.TokenPair, error)
	// Authenticate returns the user behind an access token, with dept and roles loaded.
	Authenticate(ctx context.Context, token string) (*model.UserDetail, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenManager
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, tokens TokenManager) AuthService {
	return &authService{users: users, tokens: tokens, now: func() time.Time { return timeutil.Default.Now() }}
}

func (s *authService) Login(ctx context.Context, in schema.AuthLoginParam) (*LoginResult, error) {
	u, err := s.users.FindByUsername(ctx, in.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !security.VerifyPassword(in.Password, u.Password) {
		logging.L.Warn("login rejected", "component", "auth", "event", "login_failed", "username", in.Username)
		return nil, errBadCredentials
	}

	detail, err := s.users.FindDetail(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if err := checkUsable(detail); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.UpdateLoginTime(ctx, u.ID, now); err != nil {
		return nil, err
	}
	detail.LastLoginTime = &now

	pair, err := s.tokens.CreateTokenPair(ctx, u.ID, u.IsMultiLogin)
	if err != nil {
		return nil, err
	}
	logging.L.Info("user logged in", "component", "auth", "event", "login_success", "user_id", u.ID)
	return &LoginResult{Tokens: pair, User: detail}, nil
}

func (s *authService) Logout(ctx context.Context, u *model.UserDetail, accessToken, refreshToken string) error {
	if u.IsMultiLogin {
		return s.tokens.Revoke(ctx, u.ID, accessToken, refreshToken)
	}
	return s.tokens.RevokeAll(ctx, u.ID)
}

func (s *authService) Refresh(ctx context.Context, accessToken, refreshToken string) (security.TokenPair, error) {
	sub, err := s.tokens.Decode(refreshToken)
	if err != nil {
		return security.TokenPair{}, err
	}
	u, err := s.users.FindDetail(ctx, sub)
	if errors.Is(err, sql.ErrNoRows) {
		return security.TokenPair{}, security.ErrTokenInvalid
	}
	if err != nil {
		return security.TokenPair{}, err
	}
	if err := checkUsable(u); err != nil {
		return security.TokenPair{}, err
	}
	return s.tokens.CreateNewToken(ctx, sub, accessToken, refreshToken, u.IsMultiLogin)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.UserDetail, error) {
	sub, err := s.tokens.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindDetail(ctx, sub)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, security.ErrTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	if err := checkUsable(u); err != nil {
		return nil, err
	}
	return u, nil
}

// checkUsable rejects locked users, users of a locked department and users
// whose roles are all disabled.
func checkUsable(u *model.UserDetail) error {
	if u.Status != model.StatusEnabled {
		return newError(ErrUnauthorized, "user is locked")
	}
	if u.Dept != nil && !u.Dept.Usable() {
		return newError(ErrUnauthorized, "department is locked")
	}
	if len(u.Roles) > 0 && len(u.EnabledRoles()) == 0 {
		return newError(ErrUnauthorized, "role is locked")
	}
	return nil
}
