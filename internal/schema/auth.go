package schema

import "adminapi/internal/security"

type AuthLoginParam struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenParam struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutParam struct {
	RefreshToken string `json:"refresh_token"`
}

type GetLoginToken struct {
	AccessToken            string       `json:"access_token"`
	AccessTokenType        string       `json:"access_token_type"`
	AccessTokenExpireTime  LocalTime    `json:"access_token_expire_time"`
	RefreshToken           string       `json:"refresh_token"`
	RefreshTokenExpireTime LocalTime    `json:"refresh_token_expire_time"`
	User                   *GetUserInfo `json:"user,omitempty"`
}

func LoginToken(pair security.TokenPair, user *GetUserInfo) GetLoginToken {
	return GetLoginToken{
		AccessToken:            pair.Access.Value,
		AccessTokenType:        "Bearer",
		AccessTokenExpireTime:  NewLocalTime(pair.Access.ExpireTime),
		RefreshToken:           pair.Refresh.Value,
		RefreshTokenExpireTime: NewLocalTime(pair.Refresh.ExpireTime),
		User:                   user,
	}
}
