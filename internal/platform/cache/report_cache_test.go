package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testReportCache(t *testing.T) *ReportCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReportCache(client, time.Minute)
}

func TestReportCacheRoundTrip(t *testing.T) {
	c := testReportCache(t)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "nachkalkulation", "7")
	require.NoError(t, err)
	require.Equal(t, "kalkulation:v1:nachkalkulation:7", key)

	payload := map[string]float64{"erfuellungsgrad": 103.33}
	require.NoError(t, c.Set(ctx, key, payload))

	var got map[string]float64
	require.NoError(t, c.Get(ctx, key, &got))
	require.InDelta(t, 103.33, got["erfuellungsgrad"], 0.001)
}

func TestReportCacheMiss(t *testing.T) {
	c := testReportCache(t)

	var got map[string]float64
	err := c.Get(context.Background(), "kalkulation:v1:unbekannt", &got)
	require.ErrorIs(t, err, ErrMiss)
}

func TestBumpInvalidiertAlteKeys(t *testing.T) {
	c := testReportCache(t)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "nachkalkulation", "7")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, key, map[string]string{"status": "im_plan"}))

	require.NoError(t, c.Bump(ctx))

	neuerKey, err := c.BuildKey(ctx, "nachkalkulation", "7")
	require.NoError(t, err)
	require.NotEqual(t, key, neuerKey)

	var got map[string]string
	require.ErrorIs(t, c.Get(ctx, neuerKey, &got), ErrMiss)
}

func TestReportCacheNilSicher(t *testing.T) {
	var c *ReportCache

	require.NoError(t, c.Bump(context.Background()))
	require.NoError(t, c.Set(context.Background(), "k", "v"))
	var got string
	require.ErrorIs(t, c.Get(context.Background(), "k", &got), ErrMiss)
}
