package cart

import (
	"context"
	"slices"
	"sync"
)

type listCacheKey struct{}

// listCache memoizes ListItems per owner for the lifetime of one request
type listCache struct {
	mu      sync.Mutex
	entries map[string][]ItemView
}

// WithListCache returns a context whose ListItems results are reused until
// the context is discarded. Install it once per request.
func WithListCache(ctx context.Context) context.Context {
	if _, ok := ctx.Value(listCacheKey{}).(*listCache); ok {
		return ctx
	}
	return context.WithValue(ctx, listCacheKey{}, &listCache{entries: make(map[string][]ItemView)})
}

func cacheFrom(ctx context.Context) *listCache {
	c, _ := ctx.Value(listCacheKey{}).(*listCache)
	return c
}

func (c *listCache) get(owner string) ([]ItemView, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	items, ok := c.entries[owner]
	return slices.Clone(items), ok
}

func (c *listCache) put(owner string, items []ItemView) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[owner] = slices.Clone(items)
}

func (c *listCache) invalidate(owners ...string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range owners {
		delete(c.entries, o)
	}
}
