package handler

import (
	"github.com/gofiber/fiber/v2"

	"adminapi/internal/http/middleware"
	"adminapi/internal/http/response"
	"adminapi/internal/model"
	"adminapi/internal/schema"
	"adminapi/internal/service"
)

func userDetail(c *fiber.Ctx, users service.UserService, u *model.UserDetail) schema.GetUserInfoDetail {
	out := schema.UserInfoDetail(u)
	users.ResolveAvatar(c.UserContext(), &out.GetUserInfo)
	return out
}

// Me returns the signed-in user with department and roles.
//
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/users/me [get]
func Me(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return response.OK(c, userDetail(c, users, middleware.CurrentUser(c)))
	}
}

// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "page number"
// @Param size query int false "page size, max 200"
// @Param dept query int false "department id"
// @Param username query string false "username contains"
// @Param phone query string false "phone contains"
// @Param status query int false "0 disabled, 1 enabled"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/users [get]
func ListUsers(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p schema.UserListParams
		if err := parseQuery(c, &p); err != nil {
			return response.Fail(c, err)
		}
		res, err := users.List(c.UserContext(), p)
		if err != nil {
			return response.Fail(c, err)
		}
		items := make([]schema.GetUserInfo, 0, len(res.Items))
		for i := range res.Items {
			info := schema.UserInfo(&res.Items[i])
			users.ResolveAvatar(c.UserContext(), &info)
			items = append(items, info)
		}
		return response.OK(c, schema.NewPage(items, res.Total, p.PageParams))
	}
}

// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/users/{pk} [get]
func GetUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		u, err := users.Get(c.UserContext(), id)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, userDetail(c, users, u))
	}
}

// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body schema.AddUserParam true "user"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/users [post]
func CreateUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in schema.AddUserParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		u, err := users.Create(c.UserContext(), in)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, userDetail(c, users, u))
	}
}

// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Param body body schema.UpdateUserParam true "profile"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/users/{pk} [put]
func UpdateUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		var in schema.UpdateUserParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		if err := users.Update(c.UserContext(), id, in); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}

// @Summary Set user roles
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Param body body schema.UpdateUserRoleParam true "role ids"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/users/{pk}/roles [put]
func UpdateUserRoles(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		var in schema.UpdateUserRoleParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		if err := users.SetRoles(c.UserContext(), id, in.Roles); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}

// ChangePassword updates the caller's own password.
//
// @Summary Change own password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body schema.ResetPasswordParam true "old and new password"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/users/me/password [put]
func ChangePassword(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in schema.ResetPasswordParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		if err := users.ChangePassword(c.UserContext(), middleware.CurrentUser(c), in); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}

// ResetPassword sets another user's password. Superuser only.
//
// @Summary Reset user password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Param body body schema.SetPasswordParam true "new password"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/users/{pk}/password [put]
func ResetPassword(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		var in schema.SetPasswordParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		if err := users.ResetPassword(c.UserContext(), id, in.Password); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}

// TogglePermission flips the flag named by the :type parameter.
//
// @Summary Toggle user flag
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Param type path string true "superuser, staff, status or multi_login"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/users/{pk}/permissions/{type} [put]
func TogglePermission(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		err := users.TogglePermission(c.UserContext(), middleware.CurrentUser(c), id, c.Params("type"), middleware.AccessToken(c))
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}

// UploadAvatar stores the multipart field "file" as the caller's avatar.
//
// @Summary Upload own avatar
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "jpeg, png, gif or webp"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/users/me/avatar [put]
func UploadAvatar(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return response.Error(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return response.Error(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get(fiber.HeaderContentType)
		if ct == "" {
			ct = "application/octet-stream"
		}
		url, err := users.UploadAvatar(c.UserContext(), middleware.CurrentUser(c), f, ct, fh.Size)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, fiber.Map{"url": url})
	}
}

// @Summary Delete user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/users/{pk} [delete]
func DeleteUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		if err := users.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}
