// Package cache wraps the Redis connection pool used for token storage,
// rate limiting and health checks.
package cache

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"

	"adminapi/internal/config"
)

const scanCount = 200

// incrWindow increments KEYS[1] and starts its expiry window on first use.
// It returns the new count and the remaining window in milliseconds.
var incrWindow = redis.NewScript(1, `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// Client is a thin, context-aware wrapper over a redigo pool.
type Client struct {
	pool *redis.Pool
}

// NewPool builds a pool for cfg. Connections are dialed lazily.
func NewPool(cfg config.RedisConfig) *redis.Pool {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	return &redis.Pool{
		MaxIdle:     cfg.MaxIdle,
		IdleTimeout: 240 * time.Second,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr,
				redis.DialPassword(cfg.Password),
				redis.DialDatabase(cfg.DB),
				redis.DialConnectTimeout(timeout),
				redis.DialReadTimeout(timeout),
				redis.DialWriteTimeout(timeout),
			)
		},
		TestOnBorrow: func(c redis.Conn, lastUsed time.Time) error {
			if time.Since(lastUsed) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

func New(pool *redis.Pool) *Client {
	return &Client{pool: pool}
}

func (c *Client) do(ctx context.Context, cmd string, args ...any) (any, error) {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis conn: %w", err)
	}
	defer conn.Close()
	return redis.DoContext(conn, ctx, cmd, args...)
}

// Ping verifies the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := redis.String(c.do(ctx, "PING")); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// SetEx stores value under key for ttl.
func (c *Client) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	if _, err := c.do(ctx, "SET", key, value, "PX", ttl.Milliseconds()); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Get returns the value of key. The bool is false when the key does not exist.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := redis.String(c.do(ctx, "GET", key))
	if errors.Is(err, redis.ErrNil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := c.do(ctx, "DEL", redis.Args{}.AddFlat(keys)...); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Keys returns every key starting with prefix, walking the keyspace with SCAN.
func (c *Client) Keys(ctx context.Context, prefix string) ([]string, error) {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis conn: %w", err)
	}
	defer conn.Close()

	var (
		cursor = 0
		keys   []string
	)
	for {
		values, err := redis.Values(redis.DoContext(conn, ctx, "SCAN", cursor, "MATCH", prefix+"*", "COUNT", scanCount))
		if err != nil {
			return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
		}
		var batch []string
		if _, err := redis.Scan(values, &cursor, &batch); err != nil {
			return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
		}
		keys = append(keys, batch...)
		if cursor == 0 {
			return keys, nil
		}
	}
}

// DeletePrefix removes every key starting with prefix except the ones listed in exclude.
func (c *Client) DeletePrefix(ctx context.Context, prefix string, exclude ...string) error {
	keys, err := c.Keys(ctx, prefix)
	if err != nil {
		return err
	}
	skip := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		skip[k] = struct{}{}
	}
	var doomed []string
	for _, k := range keys {
		if _, ok := skip[k]; !ok {
			doomed = append(doomed, k)
		}
	}
	return c.Del(ctx, doomed...)
}

// IncrWindow counts a hit in the fixed window stored under key and reports
// the hit count together with the time left in the window.
func (c *Client) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("redis conn: %w", err)
	}
	defer conn.Close()

	values, err := redis.Int64s(incrWindow.DoContext(ctx, conn, key, window.Milliseconds()))
	if err != nil {
		return 0, 0, fmt.Errorf("redis incr window %s: %w", key, err)
	}
	if len(values) != 2 {
		return 0, 0, fmt.Errorf("redis incr window %s: unexpected reply %v", key, values)
	}
	return values[0], time.Duration(values[1]) * time.Millisecond, nil
}

// Info returns the fields of the INFO reply for section ("" for the default set).
func (c *Client) Info(ctx context.Context, section string) (map[string]string, error) {
	args := []any{}
	if section != "" {
		args = append(args, section)
	}
	raw, err := redis.String(c.do(ctx, "INFO", args...))
	if err != nil {
		return nil, fmt.Errorf("redis info: %w", err)
	}
	return ParseInfo(raw), nil
}

func (c *Client) DBSize(ctx context.Context) (int64, error) {
	n, err := redis.Int64(c.do(ctx, "DBSIZE"))
	if err != nil {
		return 0, fmt.Errorf("redis dbsize: %w", err)
	}
	return n, nil
}

// ParseInfo turns an INFO reply into a flat key/value map.
func ParseInfo(raw string) map[string]string {
	out := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, ":"); ok {
			out[k] = v
		}
	}
	return out
}

func (c *Client) Close() error {
	return c.pool.Close()
}
