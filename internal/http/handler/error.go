package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"adminapi/internal/http/response"
)

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			return response.Fail(c, err)
		}

		switch fe.Code {
		case fiber.StatusBadRequest:
			return response.Error(c, fe.Code, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return response.Error(c, fe.Code, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return response.Error(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return response.Error(c, fe.Code, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return response.Fail(c, err)
		}
	}
}

func invalidID(c *fiber.Ctx) error {
	return response.Error(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}
