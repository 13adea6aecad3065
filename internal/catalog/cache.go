package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const listCacheKey = "catalog:list"

// Cache is a small JSON cache for product list responses. A nil *Cache is a
// no-op, so the service works without Redis in tests.
type Cache struct {
	r   redis.UniversalClient
	ttl time.Duration
}

// NewCache builds a catalog cache with the given TTL.
func NewCache(r redis.UniversalClient, ttl time.Duration) *Cache {
	if r == nil || ttl <= 0 {
		return nil
	}
	return &Cache{r: r, ttl: ttl}
}

// GetList loads the cached product list if present.
func (c *Cache) GetList(ctx context.Context) ([]Product, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.r.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false
	}
	return products, true
}

// SetList stores the product list. Failures are swallowed, the cache is
// best effort.
func (c *Cache) SetList(ctx context.Context, products []Product) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	_ = c.r.Set(ctx, listCacheKey, raw, c.ttl).Err()
}

// Invalidate drops cached lists after a product mutation.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.r.Del(ctx, listCacheKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}
