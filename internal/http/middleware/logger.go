package middleware

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"

	"adminapi/internal/logging"
)

// Logger logs each HTTP request through logging.L.
func Logger() fiber.Handler {
	return requestLogger(func() *log.Logger { return logging.L })
}

// LoggerWithWriter logs each HTTP request as a JSON line to w, with
// timestamps in loc. Fields: request_id, method, path, status, latency (ms),
// plus trace_id when the request carries a sampled span.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	l := logging.New(w, loc)
	return requestLogger(func() *log.Logger { return l })
}

func requestLogger(logger func() *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}
		latency := float64(time.Since(start).Microseconds()) / 1000

		l := logger()
		fields := []any{
			"request_id", rid,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", latency,
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			fields = append(fields, "trace_id", sc.TraceID().String())
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			l.Error("http_request", fields...)
		case status >= fiber.StatusBadRequest:
			l.Warn("http_request", fields...)
		default:
			l.Info("http_request", fields...)
		}

		return err
	}
}

func statusOf(err error) int {
	if fe, ok := err.(*fiber.Error); ok {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
