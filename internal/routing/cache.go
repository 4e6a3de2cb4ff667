package routing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"washride/internal/types"
)

type cacheEntry struct {
	route   Route
	expires time.Time
}

// Cache wraps a Provider with an in-memory TTL cache keyed by the
// start/end coordinate pair. Routes between the same two points rarely
// change within a few minutes, so repeated lookups for the same leg hit
// memory instead of the upstream routing service.
type Cache struct {
	inner Provider
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache(inner Provider, ttl time.Duration) *Cache {
	return &Cache{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cache) GetRoute(ctx context.Context, start, end types.Point) (Route, error) {
	key := fmt.Sprintf("%.6f,%.6f->%.6f,%.6f", start.Lat, start.Lng, end.Lat, end.Lng)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && time.Now().Before(e.expires) {
		c.mu.Unlock()
		return e.route, nil
	}
	c.mu.Unlock()

	route, err := c.inner.GetRoute(ctx, start, end)
	if err != nil {
		return Route{}, err
	}

	c.mu.Lock()
	// Keys follow moving drivers, so stale entries pile up unless each
	// insert sweeps the expired ones out.
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{route: route, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return route, nil
}
