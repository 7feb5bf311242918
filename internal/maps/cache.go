package maps

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const routeKeyPrefix = "route:v1:"

// CachedPlanner memoises routes in Redis. Cache failures are logged and never
// fail the request; the wrapped planner is consulted instead.
type CachedPlanner struct {
	next   Planner
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedPlanner(next Planner, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedPlanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedPlanner{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedPlanner) Plan(ctx context.Context, waypoints []string) (Route, error) {
	if len(waypoints) < 2 {
		return Route{}, ErrTooFewWaypoints
	}
	key := RouteKey(waypoints)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var route Route
		if jsonErr := json.Unmarshal(raw, &route); jsonErr == nil {
			return route, nil
		}
		c.logger.Warn("route cache entry unreadable", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("route cache read failed", "key", key, "err", err)
	}

	route, err := c.next.Plan(ctx, waypoints)
	if err != nil {
		return Route{}, err
	}

	if payload, err := json.Marshal(route); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("route cache write failed", "key", key, "err", err)
		}
	}
	return route, nil
}

// RouteKey is stable for the same ordered waypoints regardless of surrounding whitespace.
func RouteKey(waypoints []string) string {
	h := sha1.New()
	for _, w := range waypoints {
		h.Write([]byte(strings.TrimSpace(w)))
		h.Write([]byte{0})
	}
	return routeKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
