package generation

import (
	"context"
	"errors"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/upb/review-generator/internal/observability"
	"github.com/upb/review-generator/models"
	"github.com/upb/review-generator/services/providers"
)

// providerBreaker wraps one provider's circuit breaker and its cooldown deadline.
// failures is kept here because gobreaker clears its counts on every state change.
type providerBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[*providers.GenerateResponse]

	mu        sync.Mutex
	openUntil time.Time
	failures  uint32
}

func (b *providerBreaker) recordFailure() {
	b.mu.Lock()
	b.failures++
	b.mu.Unlock()
}

func (b *providerBreaker) recordSuccess() {
	b.mu.Lock()
	b.failures = 0
	b.mu.Unlock()
}

func (b *providerBreaker) consecutiveFailures() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

func (b *providerBreaker) circuitOpenUntil() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.openUntil
}

// breakerSet lazily creates one breaker per provider
type breakerSet struct {
	mu        sync.Mutex
	breakers  map[string]*providerBreaker
	threshold uint32
	cooldown  time.Duration
	now       func() time.Time
	logger    *zap.Logger
	onOpen    func(provider string, until time.Time)
}

func newBreakerSet(threshold uint32, cooldown time.Duration, logger *zap.Logger, onOpen func(string, time.Time)) *breakerSet {
	return &breakerSet{
		breakers:  make(map[string]*providerBreaker),
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
		logger:    logger,
		onOpen:    onOpen,
	}
}

func (s *breakerSet) get(provider string) *providerBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.breakers[provider]; ok {
		return b
	}

	b := &providerBreaker{name: provider}
	b.cb = gobreaker.NewCircuitBreaker[*providers.GenerateResponse](gobreaker.Settings{
		Name:        provider,
		MaxRequests: 1,          // one probe call while half-open
		Interval:    0,          // counts reset only on state changes
		Timeout:     s.cooldown, // open -> half-open

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.threshold
		},

		IsSuccessful: func(err error) bool {
			return err == nil
		},

		// A request that ended on the caller's side says nothing about the provider:
		// it neither resets the failure count nor closes a half-open circuit
		IsExcluded: func(err error) bool {
			return errors.Is(err, errCallerDone) || errors.Is(err, context.Canceled)
		},

		// Runs with the breaker's lock held; must not call back into cb
		OnStateChange: func(name string, from, to gobreaker.State) {
			var until time.Time
			if to == gobreaker.StateOpen {
				until = s.now().Add(s.cooldown)
			}
			b.mu.Lock()
			b.openUntil = until
			b.mu.Unlock()

			observability.SetCircuitState(name, string(circuitState(to)))
			s.logger.Info("provider circuit state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))

			if to == gobreaker.StateOpen && s.onOpen != nil {
				s.onOpen(name, until)
			}
		},
	})
	observability.SetCircuitState(provider, string(models.CircuitClosed))
	s.breakers[provider] = b
	return b
}

func (s *breakerSet) state(provider string) models.ProviderState {
	b := s.get(provider)
	return models.ProviderState{
		Name:                provider,
		ConsecutiveFailures: b.consecutiveFailures(),
		CircuitOpenUntil:    b.circuitOpenUntil(),
		State:               circuitState(b.cb.State()),
	}
}

func circuitState(s gobreaker.State) models.CircuitState {
	switch s {
	case gobreaker.StateOpen:
		return models.CircuitOpen
	case gobreaker.StateHalfOpen:
		return models.CircuitHalfOpen
	default:
		return models.CircuitClosed
	}
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
