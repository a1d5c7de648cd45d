package handler

import (
	"github.com/gofiber/fiber/v2"

	"adminapi/internal/http/middleware"
	"adminapi/internal/http/response"
	"adminapi/internal/schema"
	"adminapi/internal/service"
)

// Sidebar returns the navigation tree of the signed-in user.
//
// @Summary Sidebar for current user
// @Tags menus
// @Produce json
// @Security BearerAuth
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/menus/sidebar [get]
func Sidebar(menus service.MenuService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tree, err := menus.Sidebar(c.UserContext(), middleware.CurrentUser(c))
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, tree)
	}
}

// @Summary Menu tree
// @Tags menus
// @Produce json
// @Security BearerAuth
// @Param title query string false "title contains"
// @Param status query int false "0 disabled, 1 enabled"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/menus [get]
func MenuTree(menus service.MenuService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p schema.MenuListParams
		if err := parseQuery(c, &p); err != nil {
			return response.Fail(c, err)
		}
		tree, err := menus.Tree(c.UserContext(), p)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, tree)
	}
}

// @Summary Get menu
// @Tags menus
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/menus/{pk} [get]
func GetMenu(menus service.MenuService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		m, err := menus.Get(c.UserContext(), id)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, schema.MenuDetail(m))
	}
}

// @Summary Create menu
// @Tags menus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body schema.CreateMenuParam true "menu"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/menus [post]
func CreateMenu(menus service.MenuService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in schema.CreateMenuParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		m, err := menus.Create(c.UserContext(), in)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, schema.MenuDetail(m))
	}
}

// @Summary Update menu
// @Tags menus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Param body body schema.CreateMenuParam true "menu"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/menus/{pk} [put]
func UpdateMenu(menus service.MenuService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		var in schema.UpdateMenuParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		if err := menus.Update(c.UserContext(), id, in); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}

// @Summary Delete menu
// @Tags menus
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/menus/{pk} [delete]
func DeleteMenu(menus service.MenuService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		if err := menus.Delete(c.UserContext(), id); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}
