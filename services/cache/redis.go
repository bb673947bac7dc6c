package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultKeyPrefix namespaces review entries in a shared Redis
const DefaultKeyPrefix = "review"

// NewRedisClient parses a redis:// URL and verifies the connection
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.ReadTimeout = 500 * time.Millisecond
	opts.WriteTimeout = 500 * time.Millisecond
	opts.DialTimeout = 2 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisCache stores JSON-encoded entries with a Redis-side expiry.
// Transport errors are logged and reported as misses.
type RedisCache struct {
	client      redis.Cmdable
	prefix      string
	logger      *zap.Logger
	now         func() time.Time
	hits        atomic.Uint64
	misses      atomic.Uint64
	corruptions atomic.Uint64
}

// NewRedisCache creates a RedisCache on an existing client
func NewRedisCache(client redis.Cmdable, prefix string, logger *zap.Logger) *RedisCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

func (c *RedisCache) key(fingerprint string) string {
	return c.prefix + ":" + fingerprint
}

// Get fetches and decodes the entry. Undecodable values are deleted.
func (c *RedisCache) Get(ctx context.Context, fingerprint string) (*Entry, bool) {
	key := c.key(fingerprint)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis cache get failed", zap.String("key", key), zap.Error(err))
		}
		c.misses.Add(1)
		return nil, false
	}

	entry, err := decodeEntry(data)
	if err != nil {
		c.corruptions.Add(1)
		c.misses.Add(1)
		c.logger.Warn("dropping corrupted cache entry", zap.String("key", key), zap.Error(err))
		if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
			c.logger.Warn("redis cache delete failed", zap.String("key", key), zap.Error(delErr))
		}
		return nil, false
	}

	if entry.ExpiredAt(c.now()) {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return entry, true
}

// Put writes the entry with an expiry of ttl
func (c *RedisCache) Put(ctx context.Context, fingerprint, text, source string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := c.now()
	entry := &Entry{
		Fingerprint: fingerprint,
		Text:        text,
		Source:      source,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("failed to encode cache entry", zap.Error(err))
		return
	}

	key := c.key(fingerprint)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warn("redis cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Stats returns counters for this process. Size is not tracked for Redis.
func (c *RedisCache) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{
		Backend:     "redis",
		Hits:        hits,
		Misses:      misses,
		Corruptions: c.corruptions.Load(),
		HitRate:     hitRate(hits, misses),
	}
}

func decodeEntry(data []byte) (*Entry, error) {
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorruption, err)
	}
	if entry.Text == "" || entry.ExpiresAt.IsZero() {
		return nil, fmt.Errorf("%w: missing text or expiry", ErrCacheCorruption)
	}
	return &entry, nil
}
