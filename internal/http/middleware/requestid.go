package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"adminapi/internal/http/response"
)

const (
	RequestIDHeader   = "X-Request-ID"
	RequestIDLocalKey = response.RequestIDLocalKey
)

// RequestID stores a correlation id in locals and echoes it in the response
// header. An incoming X-Request-ID is reused only when it is a UUID, so
// arbitrary client input never reaches the logs.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}
