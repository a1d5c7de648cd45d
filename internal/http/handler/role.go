package handler

import (
	"github.com/gofiber/fiber/v2"

	"adminapi/internal/http/response"
	"adminapi/internal/schema"
	"adminapi/internal/service"
)

// @Summary All roles
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/roles/all [get]
func AllRoles(roles service.RoleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		all, err := roles.All(c.UserContext())
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, schema.RoleDetails(all))
	}
}

// @Summary List roles
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param page query int false "page number"
// @Param size query int false "page size, max 200"
// @Param name query string false "name contains"
// @Param status query int false "0 disabled, 1 enabled"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/roles [get]
func ListRoles(roles service.RoleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p schema.RoleListParams
		if err := parseQuery(c, &p); err != nil {
			return response.Fail(c, err)
		}
		res, err := roles.List(c.UserContext(), p)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, schema.NewPage(schema.RoleDetails(res.Items), res.Total, p.PageParams))
	}
}

// GetRole returns a role with the ids of its menus.
//
// @Summary Get role
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/roles/{pk} [get]
func GetRole(roles service.RoleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		r, err := roles.Get(c.UserContext(), id)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, schema.RoleDetailWithMenus(r))
	}
}

// @Summary Create role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body schema.CreateRoleParam true "role"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/roles [post]
func CreateRole(roles service.RoleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in schema.CreateRoleParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		r, err := roles.Create(c.UserContext(), in)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, schema.RoleDetail(r))
	}
}

// @Summary Update role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Param body body schema.CreateRoleParam true "role"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/roles/{pk} [put]
func UpdateRole(roles service.RoleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		var in schema.UpdateRoleParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		if err := roles.Update(c.UserContext(), id, in); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}

// @Summary Set role menus
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Param body body schema.UpdateRoleMenuParam true "menu ids"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/roles/{pk}/menus [put]
func UpdateRoleMenus(roles service.RoleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		var in schema.UpdateRoleMenuParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		if err := roles.SetMenus(c.UserContext(), id, in.Menus); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}

// DeleteRoles removes the roles listed in the body's "pk" array.
//
// @Summary Delete roles
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body schema.DeleteRolesParam true "role ids"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/roles [delete]
func DeleteRoles(roles service.RoleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in schema.DeleteRolesParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		if err := roles.Delete(c.UserContext(), in.PKs); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}
