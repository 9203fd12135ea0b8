package catalog

import (
	"context"
	"encoding/json"
	"strconv"
	"time"
)

// CacheStore is the key/value surface used to cache catalog payloads.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey(kind, id string) string
}

// CacheObserver records cache hits and misses.
type CacheObserver interface {
	ObserveCache(kind string, hit bool)
}

// CachedClient serves detail and filter lookups from a shared cache before
// falling back to the catalog backend. Lists are never cached.
type CachedClient struct {
	*Client
	store    CacheStore
	ttl      time.Duration
	observer CacheObserver
}

// NewCachedClient wraps client with a read-through cache.
func NewCachedClient(client *Client, store CacheStore, ttl time.Duration, observer CacheObserver) *CachedClient {
	return &CachedClient{Client: client, store: store, ttl: ttl, observer: observer}
}

// GetStone returns the cached stone detail or loads it.
func (c *CachedClient) GetStone(ctx context.Context, id int64) (*Stone, error) {
	return readThrough(ctx, c, "stone", strconv.FormatInt(id, 10), func() (*Stone, error) {
		return c.Client.GetStone(ctx, id)
	})
}

// GetProduct returns the cached product detail or loads it.
func (c *CachedClient) GetProduct(ctx context.Context, id int64) (*ProductDetail, error) {
	return readThrough(ctx, c, "product", strconv.FormatInt(id, 10), func() (*ProductDetail, error) {
		return c.Client.GetProduct(ctx, id)
	})
}

// StoneFilters returns the cached filter options or loads them.
func (c *CachedClient) StoneFilters(ctx context.Context) (*StoneFilterOptions, error) {
	return readThrough(ctx, c, "stone-filters", "", func() (*StoneFilterOptions, error) {
		return c.Client.StoneFilters(ctx)
	})
}

// readThrough treats every cache failure as a miss; the backend stays authoritative.
func readThrough[T any](ctx context.Context, c *CachedClient, kind, id string, load func() (*T, error)) (*T, error) {
	if c.store == nil || c.ttl <= 0 {
		return load()
	}
	key := c.store.CatalogKey(kind, id)
	if raw, err := c.store.Get(ctx, key); err == nil && raw != "" {
		var cached T
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			c.observe(kind, true)
			return &cached, nil
		}
	}
	c.observe(kind, false)

	value, err := load()
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(value); err == nil {
		_ = c.store.Set(ctx, key, string(payload), c.ttl)
	}
	return value, nil
}

func (c *CachedClient) observe(kind string, hit bool) {
	if c.observer != nil {
		c.observer.ObserveCache(kind, hit)
	}
}
