package ratelimit

import (
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ThrottleStats reports refusals per provider
type ThrottleStats struct {
	Provider string  `json:"provider"`
	Allowed  int64   `json:"allowed"`
	Refused  int64   `json:"refused"`
	Tokens   float64 `json:"tokens"`
}

type throttleEntry struct {
	limiter *rate.Limiter
	allowed int64
	refused int64
}

// ProviderThrottle is a token bucket per provider. A refusal means "skip this provider now",
// it never waits.
type ProviderThrottle struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*throttleEntry
	logger   *zap.Logger
}

// NewProviderThrottle creates a throttle allowing rps calls per second with the given burst.
// rps <= 0 disables throttling.
func NewProviderThrottle(rps float64, burst int, logger *zap.Logger) *ProviderThrottle {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &ProviderThrottle{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*throttleEntry),
		logger:   logger,
	}
}

func (t *ProviderThrottle) entry(provider string) *throttleEntry {
	e, ok := t.limiters[provider]
	if !ok {
		e = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[provider] = e
	}
	return e
}

// Allow consumes one token for provider if available
func (t *ProviderThrottle) Allow(provider string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.entry(provider)
	if e.limiter.Allow() {
		e.allowed++
		return true
	}
	e.refused++
	t.logger.Debug("provider call throttled", zap.String("provider", provider))
	return false
}

// Stats returns counters per provider sorted by name
func (t *ProviderThrottle) Stats() []ThrottleStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ThrottleStats, 0, len(t.limiters))
	for name, e := range t.limiters {
		out = append(out, ThrottleStats{
			Provider: name,
			Allowed:  e.allowed,
			Refused:  e.refused,
			Tokens:   e.limiter.Tokens(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}
