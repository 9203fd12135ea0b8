package catalog

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type memoryCache struct {
	data map[string]string
	sets int
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	value, ok := m.data[key]
	if !ok {
		return "", errors.New("miss")
	}
	return value, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key] = value.(string)
	m.sets++
	return nil
}

func (m *memoryCache) CatalogKey(kind, id string) string {
	return "catalog:" + kind + ":" + id
}

type cacheCounter struct {
	hits, misses int
}

func (c *cacheCounter) ObserveCache(_ string, hit bool) {
	if hit {
		c.hits++
		return
	}
	c.misses++
}

func TestCachedClientServesRepeatLookupsFromCache(t *testing.T) {
	calls := 0
	base := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusOK, `{"data":{"id":5,"name":"Oval 2.00","shape":"oval","price":9100,"currency":"USD"}}`), nil
	})
	store := &memoryCache{data: map[string]string{}}
	counter := &cacheCounter{}
	cached := NewCachedClient(base, store, time.Minute, counter)

	for i := 0; i < 3; i++ {
		stone, err := cached.GetStone(context.Background(), 5)
		if err != nil {
			t.Fatalf("get stone: %v", err)
		}
		if stone.Name != "Oval 2.00" {
			t.Fatalf("unexpected stone %+v", stone)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one upstream call, got %d", calls)
	}
	if counter.hits != 2 || counter.misses != 1 {
		t.Fatalf("unexpected hit/miss counts %+v", counter)
	}
	if _, ok := store.data["catalog:stone:5"]; !ok {
		t.Fatalf("expected stone to be cached under its key, got %v", store.data)
	}
}

func TestCachedClientDoesNotCacheErrors(t *testing.T) {
	calls := 0
	base := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusBadGateway, `bad gateway`), nil
	})
	store := &memoryCache{data: map[string]string{}}
	cached := NewCachedClient(base, store, time.Minute, nil)

	for i := 0; i < 2; i++ {
		if _, err := cached.GetProduct(context.Background(), 3); err == nil {
			t.Fatalf("expected error")
		}
	}
	if calls != 2 || store.sets != 0 {
		t.Fatalf("errors must not be cached, calls=%d sets=%d", calls, store.sets)
	}
}

func TestCachedClientWithoutStoreFallsThrough(t *testing.T) {
	calls := 0
	base := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusOK, `{"data":{"shapes":[]}}`), nil
	})
	cached := NewCachedClient(base, nil, time.Minute, nil)
	for i := 0; i < 2; i++ {
		if _, err := cached.StoneFilters(context.Background()); err != nil {
			t.Fatalf("stone filters: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected every call to reach the backend, got %d", calls)
	}
}
