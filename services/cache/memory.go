package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// memoryEntry is a cache entry with its LRU element
type memoryEntry struct {
	entry   *Entry
	element *list.Element
}

// MemoryCache is an in-memory LRU cache with per-entry TTL.
// Expired entries are dropped lazily on read and by CleanupExpired.
type MemoryCache struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	lruList   *list.List // front is most recently used
	maxSize   int
	now       func() time.Time
	hits      uint64
	misses    uint64
	evictions uint64
}

// MemoryOption configures a MemoryCache
type MemoryOption func(*MemoryCache)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// NewMemoryCache creates a MemoryCache holding at most maxSize entries
func NewMemoryCache(maxSize int, opts ...MemoryOption) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	c := &MemoryCache{
		entries: make(map[string]*memoryEntry),
		lruList: list.New(),
		maxSize: maxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the live entry for fingerprint
func (c *MemoryCache) Get(_ context.Context, fingerprint string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	me, exists := c.entries[fingerprint]
	if !exists || me.entry.ExpiredAt(c.now()) {
		c.misses++
		if exists {
			c.removeEntry(fingerprint)
		}
		return nil, false
	}

	c.lruList.MoveToFront(me.element)
	c.hits++
	return me.entry, true
}

// Put stores text under fingerprint for ttl, replacing any previous entry
func (c *MemoryCache) Put(_ context.Context, fingerprint, text, source string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := c.now()
	c.store(&Entry{
		Fingerprint: fingerprint,
		Text:        text,
		Source:      source,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	})
}

// store inserts a prepared entry as-is, keeping its timestamps
func (c *MemoryCache) store(entry *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if me, exists := c.entries[entry.Fingerprint]; exists {
		me.entry = entry
		c.lruList.MoveToFront(me.element)
		return
	}

	if c.lruList.Len() >= c.maxSize {
		c.evictLRU()
	}

	me := &memoryEntry{entry: entry}
	me.element = c.lruList.PushFront(entry.Fingerprint)
	c.entries[entry.Fingerprint] = me
}

// Len returns the number of stored entries, including expired ones not yet swept
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lruList.Len()
}

// Stats returns cache statistics
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Backend:   "memory",
		Size:      c.lruList.Len(),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate(c.hits, c.misses),
	}
}

// removeEntry must be called with lock held
func (c *MemoryCache) removeEntry(fingerprint string) {
	if me, exists := c.entries[fingerprint]; exists {
		c.lruList.Remove(me.element)
		delete(c.entries, fingerprint)
	}
}

// evictLRU must be called with lock held
func (c *MemoryCache) evictLRU() {
	back := c.lruList.Back()
	if back == nil {
		return
	}
	fingerprint := back.Value.(string)
	c.lruList.Remove(back)
	delete(c.entries, fingerprint)
	c.evictions++
}

// CleanupExpired removes all expired entries and returns how many were removed
func (c *MemoryCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var expired []string
	for fingerprint, me := range c.entries {
		if me.entry.ExpiredAt(now) {
			expired = append(expired, fingerprint)
		}
	}
	for _, fingerprint := range expired {
		c.removeEntry(fingerprint)
	}
	return len(expired)
}

// StartCleanupWorker sweeps expired entries every interval until ctx is done
func (c *MemoryCache) StartCleanupWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.CleanupExpired()
		case <-ctx.Done():
			return
		}
	}
}
