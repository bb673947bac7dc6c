package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheCorruption is reported when a stored entry cannot be decoded
var ErrCacheCorruption = errors.New("cache entry corrupted")

// Entry is a cached generation result. Entries are replaced on write, never mutated.
type Entry struct {
	Fingerprint string    `json:"fingerprint"`
	Text        string    `json:"text"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ExpiredAt reports whether the entry is no longer valid at t
func (e *Entry) ExpiredAt(t time.Time) bool {
	return !t.Before(e.ExpiresAt)
}

// Remaining returns the TTL left at t, zero once expired
func (e *Entry) Remaining(t time.Time) time.Duration {
	if e.ExpiredAt(t) {
		return 0
	}
	return e.ExpiresAt.Sub(t)
}

// ResponseCache stores generated review text keyed by request fingerprint.
// Implementations treat every backend failure as a miss.
type ResponseCache interface {
	Get(ctx context.Context, fingerprint string) (*Entry, bool)
	Put(ctx context.Context, fingerprint, text, source string, ttl time.Duration)
	Stats() Stats
}

// Stats represents cache statistics
type Stats struct {
	Backend     string  `json:"backend"`
	Size        int     `json:"size"`
	MaxSize     int     `json:"max_size,omitempty"`
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	Evictions   uint64  `json:"evictions"`
	Corruptions uint64  `json:"corruptions"`
	HitRate     float64 `json:"hit_rate"`
}

func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
