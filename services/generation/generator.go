package generation

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/upb/review-generator/internal/observability"
	"github.com/upb/review-generator/models"
	"github.com/upb/review-generator/services"
	"github.com/upb/review-generator/services/analytics"
	"github.com/upb/review-generator/services/cache"
	"github.com/upb/review-generator/services/providers"
	"github.com/upb/review-generator/utils"
)

// Components are the collaborators of a HybridGenerator. Throttle and Analytics are optional.
type Components struct {
	Registry  *providers.Registry
	Cache     cache.ResponseCache
	Ledger    Ledger
	Assigner  Assigner
	Composer  Composer
	Prompts   PromptBuilder
	Throttle  Throttle
	Analytics analytics.Emitter
}

// HybridGenerator produces review text from remote providers and falls back to
// templates, so Generate only fails for invalid requests.
type HybridGenerator struct {
	cfg       Config
	registry  *providers.Registry
	cache     cache.ResponseCache
	ledger    Ledger
	assigner  Assigner
	composer  Composer
	prompts   PromptBuilder
	throttle  Throttle
	analytics analytics.Emitter
	breakers  *breakerSet
	logger    *zap.Logger
	log       observability.Logger
	now       func() time.Time
}

// NewHybridGenerator wires the generator. Registry, Cache, Ledger, Assigner, Composer and Prompts are required.
func NewHybridGenerator(cfg Config, c Components, logger *zap.Logger) (*HybridGenerator, error) {
	switch {
	case c.Registry == nil:
		return nil, errors.New("generation: provider registry is required")
	case c.Cache == nil:
		return nil, errors.New("generation: response cache is required")
	case c.Ledger == nil:
		return nil, errors.New("generation: cost ledger is required")
	case c.Assigner == nil:
		return nil, errors.New("generation: variant assigner is required")
	case c.Composer == nil:
		return nil, errors.New("generation: template composer is required")
	case c.Prompts == nil:
		return nil, errors.New("generation: prompt builder is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if c.Analytics == nil {
		c.Analytics = analytics.NopEmitter{}
	}

	cfg = cfg.withDefaults()
	g := &HybridGenerator{
		cfg:       cfg,
		registry:  c.Registry,
		cache:     c.Cache,
		ledger:    c.Ledger,
		assigner:  c.Assigner,
		composer:  c.Composer,
		prompts:   c.Prompts,
		throttle:  c.Throttle,
		analytics: c.Analytics,
		logger:    logger,
		log:       observability.NewLogger(logger),
		now:       time.Now,
	}
	g.breakers = newBreakerSet(cfg.FailureThreshold, cfg.CircuitCooldown, logger, g.circuitOpened)
	return g, nil
}

// Generate returns review text for req. Provider failures are absorbed into a
// template fallback; the only error is a validation DomainError.
func (g *HybridGenerator) Generate(ctx context.Context, req *models.ReviewRequest) (*models.GenerationResult, error) {
	start := g.now()

	if req == nil {
		return nil, services.NewValidationError(map[string]string{"request": "request is required"}, nil)
	}
	r := *req
	r.Highlights = append([]models.Highlight(nil), req.Highlights...)
	r.Normalize()
	if err := utils.ValidateStruct(&r); err != nil {
		return nil, services.NewValidationError(utils.GetValidationFields(err), err)
	}

	fingerprint := r.Fingerprint()
	if r.SessionID != "" {
		ctx = observability.WithSessionID(ctx, r.SessionID)
	}

	entry, hit := g.cache.Get(ctx, fingerprint)
	observability.RecordCacheLookup(hit)
	if hit {
		return g.finish(start, &models.GenerationResult{
			Text:        entry.Text,
			Source:      models.SourceCache,
			Fingerprint: fingerprint,
			SessionID:   r.SessionID,
		}), nil
	}

	assignment := g.assigner.Assign(r.SessionID)
	providerReq := g.prompts.Build(&r)

	for _, name := range assignment.ProviderOrder {
		if ctx.Err() != nil {
			break
		}
		p, err := g.registry.Get(name)
		if err != nil {
			g.log.Debug(ctx, "provider not registered, skipping", zap.String("provider", name))
			continue
		}

		resp, ok := g.tryProvider(ctx, p, providerReq)
		if !ok {
			continue
		}
		return g.commitProviderResult(ctx, start, p, resp, &r, fingerprint, assignment.Variant), nil
	}

	return g.fallback(ctx, start, &r, fingerprint, assignment.Variant), nil
}

// tryProvider runs the circuit, budget and throttle checks, then the call with retries.
// It reports false when the provider was skipped or failed.
func (g *HybridGenerator) tryProvider(ctx context.Context, p providers.Provider, req *providers.GenerateRequest) (*providers.GenerateResponse, bool) {
	name := p.Name()
	breaker := g.breakers.get(name)

	if breaker.cb.State() == gobreaker.StateOpen {
		observability.RecordProviderAttempt(name, observability.OutcomeSkippedCircuit)
		g.log.Debug(ctx, "provider circuit open, skipping",
			zap.String("provider", name),
			zap.Time("open_until", breaker.circuitOpenUntil()))
		return nil, false
	}

	if err := g.ledger.Check(name); err != nil {
		observability.RecordProviderAttempt(name, observability.OutcomeSkippedBudget)
		g.log.Warn(ctx, "provider budget exhausted, skipping", zap.String("provider", name), zap.Error(err))
		return nil, false
	}

	if g.throttle != nil && !g.throttle.Allow(name) {
		observability.RecordProviderAttempt(name, observability.OutcomeSkippedThrottle)
		g.log.Warn(ctx, "provider throttled, skipping", zap.String("provider", name))
		return nil, false
	}

	resp, err := breaker.cb.Execute(func() (*providers.GenerateResponse, error) {
		return g.callWithRetry(ctx, p, req)
	})
	switch {
	case err == nil:
		breaker.recordSuccess()
		return resp, true
	case isBreakerRejection(err):
		observability.RecordProviderAttempt(name, observability.OutcomeSkippedCircuit)
		g.log.Debug(ctx, "provider circuit rejected call", zap.String("provider", name), zap.Error(err))
	case errors.Is(err, errCallerDone):
		observability.RecordProviderAttempt(name, observability.OutcomeCancelled)
		g.log.Info(ctx, "request cancelled during provider call", zap.String("provider", name))
	default:
		breaker.recordFailure()
		g.log.Warn(ctx, "provider failed after retries",
			zap.String("provider", name),
			zap.String("kind", string(providers.KindOf(err))),
			zap.Error(err))
	}
	return nil, false
}

// commitProviderResult records spend and caches the text. The writes outlive a cancelled request.
func (g *HybridGenerator) commitProviderResult(ctx context.Context, start time.Time, p providers.Provider, resp *providers.GenerateResponse, req *models.ReviewRequest, fingerprint, variant string) *models.GenerationResult {
	name := p.Name()
	wctx := context.WithoutCancel(ctx)

	cost := p.EstimateCost(resp.Usage)
	g.ledger.Record(name, cost)
	observability.SetProviderSpend(name, g.ledger.Spent(name).Dollars())
	observability.RecordProviderAttempt(name, observability.OutcomeSuccess)

	g.cache.Put(wctx, fingerprint, resp.Text, name, g.cfg.CacheTTL)

	result := g.finish(start, &models.GenerationResult{
		Text:        resp.Text,
		Source:      name,
		Variant:     variant,
		Fingerprint: fingerprint,
		SessionID:   req.SessionID,
	})

	event := analytics.NewEvent(analytics.EventGenerationSucceeded)
	event.SessionID = req.SessionID
	event.Variant = variant
	event.Provider = name
	event.Fingerprint = fingerprint
	event.LatencyMs = result.LatencyMs
	event.WithDetail("model", resp.Model).
		WithDetail("prompt_tokens", resp.Usage.PromptTokens).
		WithDetail("completion_tokens", resp.Usage.CompletionTokens).
		WithDetail("usage_estimated", resp.Usage.Estimated).
		WithDetail("cost_micros", int64(cost))
	g.analytics.Emit(event)

	g.log.Info(wctx, "review generated",
		zap.String("provider", name),
		zap.String("variant", variant),
		zap.Int64("latency_ms", result.LatencyMs),
		zap.Stringer("cost", cost))
	return result
}

// fallback composes template text. It is cached only if the request is still live.
func (g *HybridGenerator) fallback(ctx context.Context, start time.Time, req *models.ReviewRequest, fingerprint, variant string) *models.GenerationResult {
	text := g.composer.Compose(req)

	reason := "providers_exhausted"
	if ctx.Err() != nil {
		reason = "cancelled"
	} else {
		g.cache.Put(ctx, fingerprint, text, models.SourceTemplate, g.cfg.FallbackTTL)
	}

	result := g.finish(start, &models.GenerationResult{
		Text:        text,
		Source:      models.SourceTemplate,
		Variant:     variant,
		Fingerprint: fingerprint,
		SessionID:   req.SessionID,
	})

	event := analytics.NewEvent(analytics.EventGenerationFallback)
	event.SessionID = req.SessionID
	event.Variant = variant
	event.Fingerprint = fingerprint
	event.LatencyMs = result.LatencyMs
	event.WithDetail("reason", reason)
	g.analytics.Emit(event)

	g.log.Info(context.WithoutCancel(ctx), "review composed from template",
		zap.String("reason", reason),
		zap.String("variant", variant),
		zap.Int64("latency_ms", result.LatencyMs))
	return result
}

func (g *HybridGenerator) finish(start time.Time, result *models.GenerationResult) *models.GenerationResult {
	elapsed := g.now().Sub(start)
	result.LatencyMs = elapsed.Milliseconds()
	observability.RecordGeneration(result.Source, result.Variant, elapsed)
	return result
}

// circuitOpened is called by the breaker set when a provider trips
func (g *HybridGenerator) circuitOpened(provider string, until time.Time) {
	g.logger.Warn("provider circuit opened",
		zap.String("provider", provider),
		zap.Time("open_until", until))

	event := analytics.NewEvent(analytics.EventProviderCircuitOpened)
	event.Provider = provider
	event.WithDetail("open_until", until.UTC().Format(time.RFC3339)).
		WithDetail("cooldown_s", int(g.cfg.CircuitCooldown.Seconds()))
	g.analytics.Emit(event)
}

// ProviderStates reports breaker and budget state for every registered provider
func (g *HybridGenerator) ProviderStates() []models.ProviderState {
	names := g.registry.List()
	states := make([]models.ProviderState, 0, len(names))
	for _, name := range names {
		state := g.breakers.state(name)
		state.Enabled = g.ledger.Check(name) == nil
		states = append(states, state)
	}
	return states
}

// Config returns the effective configuration
func (g *HybridGenerator) Config() Config {
	return g.cfg
}
