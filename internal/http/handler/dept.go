package handler

import (
	"github.com/gofiber/fiber/v2"

	"adminapi/internal/http/response"
	"adminapi/internal/schema"
	"adminapi/internal/service"
)

// @Summary Department tree
// @Tags depts
// @Produce json
// @Security BearerAuth
// @Param name query string false "name contains"
// @Param leader query string false "leader contains"
// @Param phone query string false "phone contains"
// @Param status query int false "0 disabled, 1 enabled"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/depts [get]
func DeptTree(depts service.DeptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p schema.DeptListParams
		if err := parseQuery(c, &p); err != nil {
			return response.Fail(c, err)
		}
		tree, err := depts.Tree(c.UserContext(), p)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, tree)
	}
}

// @Summary Get department
// @Tags depts
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/depts/{pk} [get]
func GetDept(depts service.DeptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		d, err := depts.Get(c.UserContext(), id)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, schema.DeptDetail(d))
	}
}

// @Summary Create department
// @Tags depts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body schema.CreateDeptParam true "department"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/depts [post]
func CreateDept(depts service.DeptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in schema.CreateDeptParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		d, err := depts.Create(c.UserContext(), in)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, schema.DeptDetail(d))
	}
}

// @Summary Update department
// @Tags depts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Param body body schema.CreateDeptParam true "department"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/depts/{pk} [put]
func UpdateDept(depts service.DeptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		var in schema.UpdateDeptParam
		if err := parseBody(c, &in); err != nil {
			return response.Fail(c, err)
		}
		if err := depts.Update(c.UserContext(), id, in); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}

// @Summary Delete department
// @Tags depts
// @Produce json
// @Security BearerAuth
// @Param pk path int true "id"
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/sys/depts/{pk} [delete]
func DeleteDept(depts service.DeptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "pk")
		if !ok {
			return invalidID(c)
		}
		if err := depts.Delete(c.UserContext(), id); err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, nil)
	}
}
