package statecache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Minute)
}

func TestRefreshAndGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	list := []string{"010/2569", "002/2569"}
	require.NoError(t, cache.Refresh(ctx, 2569, list))

	var got []string
	require.NoError(t, cache.Get(ctx, 2569, &got))
	require.Equal(t, list, got)
}

func TestGetMiss(t *testing.T) {
	cache := newTestCache(t)
	var got []string
	require.ErrorIs(t, cache.Get(context.Background(), 2568, &got), ErrMiss)
}

func TestInvalidate(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Refresh(ctx, 2569, []string{"x"}))
	require.NoError(t, cache.Invalidate(ctx, 2569))

	var got []string
	require.ErrorIs(t, cache.Get(ctx, 2569, &got), ErrMiss)
}

func TestInvalidateAll(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Refresh(ctx, 2568, []string{"a"}))
	require.NoError(t, cache.Refresh(ctx, 2569, []string{"b"}))
	require.NoError(t, cache.InvalidateAll(ctx))

	var got []string
	require.ErrorIs(t, cache.Get(ctx, 2568, &got), ErrMiss)
	require.ErrorIs(t, cache.Get(ctx, 2569, &got), ErrMiss)
}

func TestNilCacheIsNoop(t *testing.T) {
	var cache *Cache
	ctx := context.Background()
	require.NoError(t, cache.Refresh(ctx, 2569, []string{"x"}))
	require.NoError(t, cache.Invalidate(ctx, 2569))
	var got []string
	require.ErrorIs(t, cache.Get(ctx, 2569, &got), ErrMiss)
}
