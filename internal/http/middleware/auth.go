package middleware

import (
	"context"
	"slices"

	"github.com/gofiber/fiber/v2"

	"adminapi/internal/http/response"
	"adminapi/internal/model"
	"adminapi/internal/security"
)

const (
	UserLocalKey  = "user"
	TokenLocalKey = "access_token"
)

// Authenticator resolves an access token to its user. service.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.UserDetail, error)
}

// JWTAuth requires a valid Bearer access token on every path not listed in
// exclude. The user and the raw token are stored in locals.
func JWTAuth(auth Authenticator, exclude []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if slices.Contains(exclude, c.Path()) {
			return c.Next()
		}

		token, err := security.ParseBearer(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return response.Fail(c, err)
		}
		u, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return response.Fail(c, err)
		}

		c.Locals(UserLocalKey, u)
		c.Locals(TokenLocalKey, token)
		return c.Next()
	}
}

// CurrentUser returns the user stored by JWTAuth, or nil.
func CurrentUser(c *fiber.Ctx) *model.UserDetail {
	u, _ := c.Locals(UserLocalKey).(*model.UserDetail)
	return u
}

// AccessToken returns the token stored by JWTAuth.
func AccessToken(c *fiber.Ctx) string {
	s, _ := c.Locals(TokenLocalKey).(string)
	return s
}
