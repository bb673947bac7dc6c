package generation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/upb/review-generator/internal/observability"
	"github.com/upb/review-generator/services/providers"
)

// errCallerDone marks an attempt abandoned because the request context ended.
// The breaker does not count it as a provider failure.
var errCallerDone = errors.New("request context done")

const jitterFraction = 0.2

// backoff returns the wait before retry number attempt+1: base*2^attempt with ±20% jitter, capped
func backoff(base, maxWait time.Duration, attempt int) time.Duration {
	wait := base
	for i := 0; i < attempt && wait < maxWait; i++ {
		wait *= 2
	}
	if wait > maxWait {
		wait = maxWait
	}

	jitter := (rand.Float64()*2 - 1) * jitterFraction * float64(wait)
	wait += time.Duration(jitter)
	if wait > maxWait {
		wait = maxWait
	}
	if wait < 0 {
		wait = 0
	}
	return wait
}

// callWithRetry calls the provider up to MaxRetries+1 times. Each call gets a fresh
// AttemptTimeout; non-retryable errors and a finished request context stop early.
func (g *HybridGenerator) callWithRetry(ctx context.Context, p providers.Provider, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	name := p.Name()
	attemptReq := *req
	attemptReq.Timeout = g.cfg.AttemptTimeout

	for attempt := 0; ; attempt++ {
		resp, err := p.Generate(ctx, &attemptReq)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errCallerDone, ctx.Err())
		}

		kind := string(providers.KindOf(err))
		if kind == "" {
			kind = "unknown"
		}
		observability.RecordProviderAttempt(name, kind)

		if !providers.IsRetryable(err) || attempt >= g.cfg.MaxRetries {
			return nil, err
		}

		wait := backoff(g.cfg.BackoffBase, g.cfg.BackoffMax, attempt)
		g.log.Debug(ctx, "retrying provider",
			zap.String("provider", name),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %w", errCallerDone, ctx.Err())
		}
	}
}
