// Package statecache is the explicit application-state store backing list
// views. It replaces ambient in-memory globals with defined refresh and
// invalidate operations.
package statecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss indicates the requested list is not cached.
var ErrMiss = errors.New("statecache: miss")

// Cache stores per-fiscal-year request lists as JSON.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New instantiates the cache helper.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func listKey(year int) string {
	return "sarabun:requests:" + strconv.Itoa(year)
}

// Get loads the cached list for a fiscal year into dest.
func (c *Cache) Get(ctx context.Context, year int, dest any) error {
	if c == nil || c.client == nil {
		return ErrMiss
	}
	raw, err := c.client.Get(ctx, listKey(year)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("statecache: get: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A corrupt entry behaves like a miss so callers reload.
		return ErrMiss
	}
	return nil
}

// Refresh stores a freshly reconciled list for a fiscal year.
func (c *Cache) Refresh(ctx context.Context, year int, value any) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("statecache: encode: %w", err)
	}
	if err := c.client.Set(ctx, listKey(year), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("statecache: set: %w", err)
	}
	return nil
}

// Invalidate drops the cached list for a fiscal year.
func (c *Cache) Invalidate(ctx context.Context, year int) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, listKey(year)).Err(); err != nil {
		return fmt.Errorf("statecache: del: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached request list.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, "sarabun:requests:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("statecache: del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("statecache: scan: %w", err)
	}
	return nil
}
