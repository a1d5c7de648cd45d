package handler

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"adminapi/internal/http/response"
	"adminapi/internal/monitor"
)

// ServerInspector gathers host metrics. *monitor.Collector satisfies it.
type ServerInspector interface {
	Collect(ctx context.Context) (*monitor.ServerInfo, error)
}

// RedisInspector reads server statistics. *cache.Client satisfies it.
type RedisInspector interface {
	Info(ctx context.Context, section string) (map[string]string, error)
	DBSize(ctx context.Context) (int64, error)
}

type commandStat struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type redisInfo struct {
	Info  map[string]string `json:"info"`
	Stats []commandStat     `json:"stats"`
}

// @Summary Server status
// @Tags monitors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/monitors/server [get]
func ServerMonitor(m ServerInspector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := m.Collect(c.UserContext())
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, info)
	}
}

// RedisMonitor reports INFO fields, the key count and per-command call counts.
//
// @Summary Redis status
// @Tags monitors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} schema.ResponseModel
// @Router /api/v1/monitors/redis [get]
func RedisMonitor(r RedisInspector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		info, err := r.Info(ctx, "")
		if err != nil {
			return response.Fail(c, err)
		}
		size, err := r.DBSize(ctx)
		if err != nil {
			return response.Fail(c, err)
		}
		info["keys_num"] = strconv.FormatInt(size, 10)
		if up, err := strconv.ParseInt(info["uptime_in_seconds"], 10, 64); err == nil {
			info["uptime_in_seconds"] = monitor.FormatSeconds(up)
		}

		raw, err := r.Info(ctx, "commandstats")
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, redisInfo{Info: info, Stats: commandStats(raw)})
	}
}

// commandStats turns "cmdstat_get: calls=3,usec=..." entries into name/calls pairs.
func commandStats(raw map[string]string) []commandStat {
	out := make([]commandStat, 0, len(raw))
	for k, v := range raw {
		name, ok := strings.CutPrefix(k, "cmdstat_")
		if !ok {
			continue
		}
		calls := ""
		for _, field := range strings.Split(v, ",") {
			if n, ok := strings.CutPrefix(field, "calls="); ok {
				calls = n
				break
			}
		}
		out = append(out, commandStat{Name: name, Value: calls})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
