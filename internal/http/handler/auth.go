package handler

import (
	"github.com/gofiber/fiber/v2"

	"adminapi/internal/http/middleware"
	"adminapi/internal/http/response"
	"adminapi/internal/schema"
	"adminapi/internal/security"
	"adminapi/internal/service"
)

// Login exchanges credentials for a token pair.
//
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body schema.AuthLoginParam true "credentials"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/auth/login [post]
func Login(auth service.AuthService, users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in schema.AuthLoginParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		res, err := auth.Login(c.UserContext(), in)
		if err != nil {
			return response.Fail(c, err)
		}
		info := schema.UserInfo(&res.User.User)
		users.ResolveAvatar(c.UserContext(), &info)
		return response.OK(c, schema.LoginToken(res.Tokens, &info))
	}
}

// Logout revokes the caller's tokens. The refresh token in the body is optional.
//
// @Summary Logout
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body schema.LogoutParam false "refresh token"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/auth/logout [post]
func Logout(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in schema.LogoutParam
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&in); err != nil {
				return response.Fail(c, errInvalidBody)
			}
		}
		if err := auth.Logout(c.UserContext(), middleware.CurrentUser(c), middleware.AccessToken(c), in.RefreshToken); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}

// RefreshToken issues a new pair from a refresh token. A Bearer access token,
// when sent, is revoked together with the old refresh token.
//
// @Summary Refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body schema.RefreshTokenParam true "refresh token"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/auth/token/refresh [post]
func RefreshToken(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in schema.RefreshTokenParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		access, _ := security.ParseBearer(c.Get(fiber.HeaderAuthorization))
		pair, err := auth.Refresh(c.UserContext(), access, in.RefreshToken)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, schema.LoginToken(pair, nil))
	}
}
