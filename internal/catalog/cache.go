package catalog

import (
	"context"
	"image"
	"sync"
)

// Resolver resolves an image ref to a decoded NRGBA image.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (*image.NRGBA, error)
}

// LoadFunc loads one ref. Loader.Load satisfies it.
type LoadFunc func(ctx context.Context, ref string) (*image.NRGBA, error)

// Cache is a concurrency-safe decode cache. Failures are cached too, so a
// broken ref is only fetched once.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	load  LoadFunc
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a cache backed by load.
func NewCache(load LoadFunc) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		load:  load,
	}
}

// Resolve returns the decoded image for ref, loading it on first use.
func (c *Cache) Resolve(ctx context.Context, ref string) (*image.NRGBA, error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[ref]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	img, err := c.load(ctx, ref)
	if ctx.Err() != nil {
		// don't remember cancellations
		return nil, ctx.Err()
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[ref]; exists {
		return entry.img, entry.err
	}
	c.items[ref] = &cacheEntry{img: img, err: err}
	return img, err
}

// Forget drops ref from the cache.
func (c *Cache) Forget(ref string) {
	c.mu.Lock()
	delete(c.items, ref)
	c.mu.Unlock()
}

// Len returns the number of cached refs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
