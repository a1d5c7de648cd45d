package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"adminapi/internal/schema"
)

var (
	errInvalidBody  = fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	errInvalidQuery = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
)

// parseBody decodes the request body into out and validates it.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return schema.Validate(out)
}

func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return errInvalidQuery
	}
	return schema.Validate(out)
}

// paramID reads a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
