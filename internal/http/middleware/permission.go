package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"adminapi/internal/http/response"
	"adminapi/internal/security"
)

// RequirePerm checks the current user against perm with rbac. It must run
// after JWTAuth.
func RequirePerm(rbac *security.RBAC, perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := rbac.Verify(CurrentUser(c), c.Method(), perm); err != nil {
			return response.Fail(c, err)
		}
		return c.Next()
	}
}

// SuperuserOnly lets through superusers that are also staff.
func SuperuserOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return response.Fail(c, security.ErrTokenInvalid)
		}
		if !u.IsSuperuser || !u.IsStaff {
			return response.Fail(c, fmt.Errorf("%w: superuser required", security.ErrPermissionDenied))
		}
		return c.Next()
	}
}
