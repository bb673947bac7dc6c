package cache

import (
	"context"
	"sync/atomic"
	"time"
)

// TieredCache reads the memory tier first and falls back to a shared tier.
// Shared-tier hits are promoted into memory for their remaining TTL.
type TieredCache struct {
	local  *MemoryCache
	shared ResponseCache
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewTieredCache combines a memory cache with a shared cache
func NewTieredCache(local *MemoryCache, shared ResponseCache) *TieredCache {
	return &TieredCache{local: local, shared: shared}
}

// Get implements ResponseCache
func (c *TieredCache) Get(ctx context.Context, fingerprint string) (*Entry, bool) {
	if entry, ok := c.local.Get(ctx, fingerprint); ok {
		c.hits.Add(1)
		return entry, true
	}

	entry, ok := c.shared.Get(ctx, fingerprint)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if entry.Remaining(c.local.now()) > 0 {
		c.local.store(entry)
	}
	c.hits.Add(1)
	return entry, true
}

// Put writes through to both tiers
func (c *TieredCache) Put(ctx context.Context, fingerprint, text, source string, ttl time.Duration) {
	c.local.Put(ctx, fingerprint, text, source, ttl)
	c.shared.Put(ctx, fingerprint, text, source, ttl)
}

// Stats reports tier-level hits with the memory tier's size
func (c *TieredCache) Stats() Stats {
	local := c.local.Stats()
	shared := c.shared.Stats()
	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{
		Backend:     "tiered",
		Size:        local.Size,
		MaxSize:     local.MaxSize,
		Hits:        hits,
		Misses:      misses,
		Evictions:   local.Evictions,
		Corruptions: shared.Corruptions,
		HitRate:     hitRate(hits, misses),
	}
}
