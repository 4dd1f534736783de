package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"personnel/pkg/platform/sentinel"
)

// Cache is a read-through Redis decorator over another catalog. Option
// catalogs change rarely, so a short TTL keeps edits visible without hitting
// the database on every form render. Redis failures fall through to the
// inner catalog; the cache never turns a working catalog into a broken one.
type Cache struct {
	inner  Source
	client *redis.Client
	ttl    time.Duration
}

// Source is the catalog a Cache reads through to.
type Source interface {
	Values(ctx context.Context, category string) ([]string, error)
	Has(ctx context.Context, category string) (bool, error)
}

// NewCache wraps inner with a Redis read-through cache.
func NewCache(inner Source, client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{inner: inner, client: client, ttl: ttl}
}

func cacheKey(category string) string {
	return fmt.Sprintf("catalog:%s", category)
}

// Values serves from Redis when possible, falling back to the inner catalog
// and populating the cache on a miss. Unknown categories are cached too so
// repeated lookups of a bad name do not hammer the database.
func (c *Cache) Values(ctx context.Context, category string) ([]string, error) {
	if c.client != nil {
		payload, err := c.client.Get(ctx, cacheKey(category)).Result()
		if err == nil {
			if payload == "" {
				return nil, sentinel.ErrNotFound
			}
			var values []string
			if err := json.Unmarshal([]byte(payload), &values); err == nil {
				return values, nil
			}
		}
	}

	values, err := c.inner.Values(ctx, category)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			c.store(ctx, category, "")
		}
		return nil, err
	}

	if payload, err := json.Marshal(values); err == nil {
		c.store(ctx, category, string(payload))
	}
	return values, nil
}

// Has defers to Values so the existence check shares the cache entry.
func (c *Cache) Has(ctx context.Context, category string) (bool, error) {
	_, err := c.Values(ctx, category)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Invalidate drops the cached entry for a category after an edit.
func (c *Cache) Invalidate(ctx context.Context, category string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKey(category)).Err()
}

func (c *Cache) store(ctx context.Context, category, payload string) {
	if c.client == nil {
		return
	}
	// Best effort: a failed cache write only costs the next read a DB trip.
	_ = c.client.Set(ctx, cacheKey(category), payload, c.ttl).Err()
}
