package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"adminapi/internal/config"
	"adminapi/internal/http/response"
	"adminapi/internal/logging"
)

// WindowCounter counts hits in a fixed window. *cache.Client satisfies it.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimit allows cfg.Requests hits per client IP and route within
// cfg.WindowSec. Over the limit it answers 429 with Retry-After in seconds.
// When the counter fails the request is let through.
func RateLimit(counter WindowCounter, cfg config.LimiterConfig) fiber.Handler {
	window := time.Duration(cfg.WindowSec) * time.Second
	return func(c *fiber.Ctx) error {
		if !cfg.Enabled {
			return c.Next()
		}

		key := cfg.RedisPrefix + ":" + c.IP() + ":" + c.Route().Path
		hits, ttl, err := counter.IncrWindow(c.UserContext(), key, window)
		if err != nil {
			logging.L.Warn("rate limiter unavailable", "component", "limiter", "key", key, "err", err)
			return c.Next()
		}
		if hits > int64(cfg.Requests) {
			c.Set(fiber.HeaderRetryAfter, strconv.FormatInt(retryAfter(ttl), 10))
			return response.Error(c, fiber.StatusTooManyRequests, "TOO_MANY_REQUESTS", "too many requests")
		}
		return c.Next()
	}
}

// retryAfter rounds ttl up to whole seconds.
func retryAfter(ttl time.Duration) int64 {
	ms := ttl.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return (ms + 999) / 1000
}
