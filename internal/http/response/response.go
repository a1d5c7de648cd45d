// Package response writes the JSON bodies shared by handlers and middleware:
// the unified success envelope and the standardized error payload.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"adminapi/internal/logging"
	"adminapi/internal/schema"
	"adminapi/internal/security"
	"adminapi/internal/service"
)

// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
const RequestIDLocalKey = "request_id"

// Payload defines the standardized error response body.
type Payload struct {
	RequestID string   `json:"request_id"`
	Error     Envelope `json:"error"`
}

type Envelope struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []schema.FieldError `json:"details,omitempty"`
}

// RequestID extracts the request_id previously stored by middleware.RequestID.
func RequestID(c *fiber.Ctx) string {
	if s, ok := c.Locals(RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// OK writes data inside the unified success envelope.
func OK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(schema.ResponseModel{Code: fiber.StatusOK, Msg: "Success", Data: data})
}

// Error writes a standardized JSON error response without leaking internal errors.
func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(Payload{
		RequestID: RequestID(c),
		Error:     Envelope{Code: code, Message: message},
	})
}

type mapping struct {
	target error
	status int
	code   string
}

// Order matters: token errors are checked before the generic kinds.
var mappings = []mapping{
	{security.ErrTokenExpired, fiber.StatusUnauthorized, "TOKEN_EXPIRED"},
	{security.ErrTokenInvalid, fiber.StatusUnauthorized, "TOKEN_INVALID"},
	{security.ErrPermissionDenied, fiber.StatusForbidden, "PERMISSION_DENIED"},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{service.ErrBadRequest, fiber.StatusBadRequest, "BAD_REQUEST"},
	{service.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{service.ErrUnavailable, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
}

// Status returns the HTTP status and error code for err.
func Status(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, codeForStatus(fe.Code)
	}
	var ve schema.ValidationErrors
	if errors.As(err, &ve) {
		return fiber.StatusUnprocessableEntity, "VALIDATION_FAILED"
	}
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL_ERROR"
}

// Fail maps err to a status and writes it. Rule violations carry their own
// message; anything unknown is logged and reported as an internal error.
func Fail(c *fiber.Ctx, err error) error {
	status, code := Status(err)

	var ve schema.ValidationErrors
	switch {
	case errors.As(err, &ve):
		return c.Status(status).JSON(Payload{
			RequestID: RequestID(c),
			Error:     Envelope{Code: code, Message: "validation failed", Details: ve},
		})
	case status == fiber.StatusInternalServerError:
		logging.L.Error("unhandled error", "request_id", RequestID(c), "method", c.Method(), "path", c.Path(), "err", err)
		return Error(c, status, code, "internal server error")
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Error(c, status, code, fe.Message)
	}
	return Error(c, status, code, message(err))
}

func message(err error) string {
	var se *service.Error
	if errors.As(err, &se) {
		return se.Msg
	}
	switch {
	case errors.Is(err, security.ErrTokenExpired):
		return "token has expired"
	case errors.Is(err, security.ErrTokenInvalid):
		return "invalid token"
	}
	return err.Error()
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_FAILED"
	case fiber.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case fiber.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
