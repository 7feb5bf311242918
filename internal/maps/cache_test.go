package maps

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedPlanner_Redis(t *testing.T) {
	addr := os.Getenv("FAREQUOTE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FAREQUOTE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())

	wps := []string{"37.5665,126.9780", time.Now().Format(time.RFC3339Nano)}
	t.Cleanup(func() { rdb.Del(context.Background(), RouteKey(wps)) })

	inner := &stubPlanner{route: Route{DistanceMeters: 4200, DurationSeconds: 900, Source: "stub"}}
	cached := NewCachedPlanner(inner, rdb, time.Minute, nil)

	first, err := cached.Plan(ctx, wps)
	require.NoError(t, err)
	second, err := cached.Plan(ctx, wps)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	ttl, err := rdb.TTL(ctx, RouteKey(wps)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestCachedPlanner_FallsThroughWhenRedisDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	inner := &stubPlanner{route: Route{DistanceMeters: 1000, Source: "stub"}}
	route, err := NewCachedPlanner(inner, rdb, time.Minute, nil).Plan(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "stub", route.Source)
	assert.Equal(t, 1, inner.calls)
}
