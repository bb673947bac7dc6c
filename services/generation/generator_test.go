package generation

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upb/review-generator/models"
	"github.com/upb/review-generator/services"
	"github.com/upb/review-generator/services/analytics"
	"github.com/upb/review-generator/services/budget"
	"github.com/upb/review-generator/services/cache"
	"github.com/upb/review-generator/services/experiment"
	"github.com/upb/review-generator/services/prompt"
	"github.com/upb/review-generator/services/providers"
	"github.com/upb/review-generator/services/ratelimit"
	"github.com/upb/review-generator/services/template"
)

// spyProvider counts calls and answers through respond
type spyProvider struct {
	name    string
	calls   atomic.Int32
	lastReq atomic.Pointer[providers.GenerateRequest]
	respond func(ctx context.Context, call int32) (*providers.GenerateResponse, error)
}

func (p *spyProvider) Name() string  { return p.name }
func (p *spyProvider) Model() string { return p.name + "-model" }

func (p *spyProvider) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	n := p.calls.Add(1)
	p.lastReq.Store(req)
	return p.respond(ctx, n)
}

func (p *spyProvider) EstimateCost(providers.Usage) budget.Money {
	return budget.Money(1500)
}

func succeeding(name string) *spyProvider {
	return &spyProvider{name: name, respond: func(context.Context, int32) (*providers.GenerateResponse, error) {
		return &providers.GenerateResponse{
			Text:  "A wonderful stay, written by " + name + ".",
			Model: name + "-model",
			Usage: providers.Usage{PromptTokens: 120, CompletionTokens: 80, TotalTokens: 200},
		}, nil
	}}
}

func failing(name string, status int) *spyProvider {
	return &spyProvider{name: name, respond: func(context.Context, int32) (*providers.GenerateResponse, error) {
		return nil, providers.ClassifyStatus(name, status, "upstream said no")
	}}
}

// recordingEmitter keeps every emitted event
type recordingEmitter struct {
	mu     sync.Mutex
	events []*analytics.Event
}

func (e *recordingEmitter) Emit(event *analytics.Event) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return true
}

func (e *recordingEmitter) ofType(t analytics.EventType) []*analytics.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*analytics.Event
	for _, ev := range e.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type harness struct {
	gen    *HybridGenerator
	cache  *cache.MemoryCache
	ledger *budget.Ledger
	events *recordingEmitter
}

type harnessOption func(*Config, *Components)

func newHarness(t *testing.T, order []string, provs []providers.Provider, opts ...harnessOption) *harness {
	t.Helper()

	registry := providers.NewRegistry()
	for _, p := range provs {
		require.NoError(t, registry.Register(p))
	}
	if len(order) == 0 {
		order = []string{"openai"}
	}
	assigner, err := experiment.NewAssigner(experiment.Config{ControlOrder: order})
	require.NoError(t, err)

	h := &harness{
		cache:  cache.NewMemoryCache(100),
		ledger: budget.NewLedger(nil, zap.NewNop()),
		events: &recordingEmitter{},
	}

	cfg := Config{
		AttemptTimeout:   time.Second,
		MaxRetries:       2,
		BackoffBase:      time.Millisecond,
		BackoffMax:       2 * time.Millisecond,
		FailureThreshold: 3,
		CircuitCooldown:  time.Minute,
		CacheTTL:         time.Hour,
		FallbackTTL:      5 * time.Minute,
	}
	components := Components{
		Registry:  registry,
		Cache:     h.cache,
		Ledger:    h.ledger,
		Assigner:  assigner,
		Composer:  template.NewComposer(),
		Prompts:   prompt.NewBuilder(prompt.DefaultConfig(), zap.NewNop()),
		Analytics: h.events,
	}
	for _, opt := range opts {
		opt(&cfg, &components)
	}
	if l, ok := components.Ledger.(*budget.Ledger); ok {
		h.ledger = l
	}

	h.gen, err = NewHybridGenerator(cfg, components, zap.NewNop())
	require.NoError(t, err)
	return h
}

func grandPlaza() *models.ReviewRequest {
	return &models.ReviewRequest{
		HotelName:  "Grand Plaza",
		Language:   models.LanguageEnglish,
		Platform:   models.PlatformGoogle,
		Rating:     5,
		Highlights: []models.Highlight{models.HighlightCleanliness, models.HighlightStaff},
		StaffName:  "Maria",
		SessionID:  "session-1",
	}
}

// distinct returns a valid request with its own fingerprint
func distinct(i int) *models.ReviewRequest {
	req := grandPlaza()
	req.HotelName = fmt.Sprintf("Hotel %d", i)
	return req
}

func TestNewHybridGenerator_RequiresComponents(t *testing.T) {
	_, err := NewHybridGenerator(DefaultConfig(), Components{}, zap.NewNop())
	assert.Error(t, err)
}

func TestGenerate_ProviderSuccess(t *testing.T) {
	openai := succeeding("openai")
	h := newHarness(t, []string{"openai"}, []providers.Provider{openai})

	result, err := h.gen.Generate(context.Background(), grandPlaza())
	require.NoError(t, err)

	assert.Equal(t, "openai", result.Source)
	assert.NotEmpty(t, result.Text)
	assert.Equal(t, experiment.VariantControl, result.Variant)
	assert.Equal(t, grandPlaza().Fingerprint(), result.Fingerprint)
	assert.Equal(t, "session-1", result.SessionID)
	assert.Equal(t, int32(1), openai.calls.Load())

	assert.Equal(t, budget.Money(1500), h.ledger.Spent("openai"))
	assert.Equal(t, 1, h.cache.Len())
	require.Len(t, h.events.ofType(analytics.EventGenerationSucceeded), 1)

	sent := openai.lastReq.Load()
	require.NotNil(t, sent)
	assert.Equal(t, time.Second, sent.Timeout)
	assert.Contains(t, sent.User, "Grand Plaza")
}

func TestGenerate_CacheHit(t *testing.T) {
	openai := succeeding("openai")
	h := newHarness(t, []string{"openai"}, []providers.Provider{openai})

	first, err := h.gen.Generate(context.Background(), grandPlaza())
	require.NoError(t, err)

	again := grandPlaza()
	again.SessionID = "another-session"
	again.Highlights = []models.Highlight{models.HighlightStaff, models.HighlightCleanliness}

	second, err := h.gen.Generate(context.Background(), again)
	require.NoError(t, err)

	assert.Equal(t, models.SourceCache, second.Source)
	assert.Equal(t, first.Text, second.Text)
	assert.Less(t, second.LatencyMs, int64(5))
	assert.Equal(t, int32(1), openai.calls.Load())
}

func TestGenerate_HotelCasingIsNotServedFromCache(t *testing.T) {
	openai := succeeding("openai")
	h := newHarness(t, []string{"openai"}, []providers.Provider{openai})

	_, err := h.gen.Generate(context.Background(), grandPlaza())
	require.NoError(t, err)

	shouted := grandPlaza()
	shouted.HotelName = "GRAND PLAZA"
	result, err := h.gen.Generate(context.Background(), shouted)
	require.NoError(t, err)

	assert.Equal(t, "openai", result.Source)
	assert.Equal(t, int32(2), openai.calls.Load())
	assert.Equal(t, 2, h.cache.Len())
}

func TestGenerate_FallbackWhenAllProvidersFail(t *testing.T) {
	openai := failing("openai", http.StatusServiceUnavailable)
	gemini := failing("gemini", http.StatusInternalServerError)
	h := newHarness(t, []string{"openai", "gemini"}, []providers.Provider{openai, gemini})

	result, err := h.gen.Generate(context.Background(), grandPlaza())
	require.NoError(t, err)

	assert.Equal(t, models.SourceTemplate, result.Source)
	assert.True(t, result.IsFallback())
	assert.Contains(t, result.Text, "Grand Plaza")

	spec, _ := models.GetPlatformSpec(models.PlatformGoogle)
	n := utf8.RuneCountInString(result.Text)
	assert.GreaterOrEqual(t, n, spec.MinChars)
	assert.LessOrEqual(t, n, spec.MaxChars)

	// both providers tried with retries
	assert.Equal(t, int32(3), openai.calls.Load())
	assert.Equal(t, int32(3), gemini.calls.Load())

	fallbacks := h.events.ofType(analytics.EventGenerationFallback)
	require.Len(t, fallbacks, 1)
	assert.Equal(t, "providers_exhausted", fallbacks[0].Details["reason"])

	entry, ok := h.cache.Get(context.Background(), result.Fingerprint)
	require.True(t, ok)
	assert.Equal(t, models.SourceTemplate, entry.Source)
}

func TestGenerate_FallsThroughToNextProvider(t *testing.T) {
	openai := failing("openai", http.StatusBadGateway)
	gemini := succeeding("gemini")
	h := newHarness(t, []string{"openai", "gemini"}, []providers.Provider{openai, gemini})

	result, err := h.gen.Generate(context.Background(), grandPlaza())
	require.NoError(t, err)
	assert.Equal(t, "gemini", result.Source)
	assert.Equal(t, budget.Money(0), h.ledger.Spent("openai"))
	assert.Equal(t, budget.Money(1500), h.ledger.Spent("gemini"))
}

func TestGenerate_UnregisteredProviderIsSkipped(t *testing.T) {
	gemini := succeeding("gemini")
	h := newHarness(t, []string{"anthropic", "gemini"}, []providers.Provider{gemini})

	result, err := h.gen.Generate(context.Background(), grandPlaza())
	require.NoError(t, err)
	assert.Equal(t, "gemini", result.Source)
}

func TestGenerate_Retries(t *testing.T) {
	t.Run("retryable errors use every attempt", func(t *testing.T) {
		openai := failing("openai", http.StatusTooManyRequests)
		h := newHarness(t, []string{"openai"}, []providers.Provider{openai})

		_, err := h.gen.Generate(context.Background(), grandPlaza())
		require.NoError(t, err)
		assert.Equal(t, int32(3), openai.calls.Load())
	})

	t.Run("non-retryable error stops at once", func(t *testing.T) {
		openai := failing("openai", http.StatusUnauthorized)
		h := newHarness(t, []string{"openai"}, []providers.Provider{openai})

		_, err := h.gen.Generate(context.Background(), grandPlaza())
		require.NoError(t, err)
		assert.Equal(t, int32(1), openai.calls.Load())
	})

	t.Run("recovers on a later attempt", func(t *testing.T) {
		openai := &spyProvider{name: "openai", respond: func(_ context.Context, call int32) (*providers.GenerateResponse, error) {
			if call < 3 {
				return nil, providers.ClassifyTransport("openai", context.DeadlineExceeded)
			}
			return &providers.GenerateResponse{Text: "Third time lucky."}, nil
		}}
		h := newHarness(t, []string{"openai"}, []providers.Provider{openai})

		result, err := h.gen.Generate(context.Background(), grandPlaza())
		require.NoError(t, err)
		assert.Equal(t, "openai", result.Source)
		assert.Equal(t, "Third time lucky.", result.Text)
		assert.Equal(t, int32(3), openai.calls.Load())
	})
}

func TestGenerate_CircuitOpensAndSkips(t *testing.T) {
	openai := failing("openai", http.StatusServiceUnavailable)
	h := newHarness(t, []string{"openai"}, []providers.Provider{openai}, func(cfg *Config, _ *Components) {
		cfg.MaxRetries = 0
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := h.gen.Generate(ctx, distinct(i))
		require.NoError(t, err)
		assert.Equal(t, models.SourceTemplate, result.Source)
	}
	assert.Equal(t, int32(3), openai.calls.Load())

	states := h.gen.ProviderStates()
	require.Len(t, states, 1)
	assert.Equal(t, models.CircuitOpen, states[0].State)
	assert.Equal(t, uint32(3), states[0].ConsecutiveFailures)
	assert.True(t, states[0].IsOpenAt(time.Now()))

	opened := h.events.ofType(analytics.EventProviderCircuitOpened)
	require.Len(t, opened, 1)
	assert.Equal(t, "openai", opened[0].Provider)

	// open circuit: no call reaches the provider
	for i := 3; i < 6; i++ {
		result, err := h.gen.Generate(ctx, distinct(i))
		require.NoError(t, err)
		assert.Equal(t, models.SourceTemplate, result.Source)
	}
	assert.Equal(t, int32(3), openai.calls.Load())
}

func TestGenerate_HalfOpenProbe(t *testing.T) {
	var healthy atomic.Bool
	openai := &spyProvider{name: "openai", respond: func(context.Context, int32) (*providers.GenerateResponse, error) {
		if healthy.Load() {
			return &providers.GenerateResponse{Text: "Back online."}, nil
		}
		return nil, providers.ClassifyStatus("openai", http.StatusServiceUnavailable, "down")
	}}
	h := newHarness(t, []string{"openai"}, []providers.Provider{openai}, func(cfg *Config, _ *Components) {
		cfg.MaxRetries = 0
		cfg.FailureThreshold = 2
		cfg.CircuitCooldown = 50 * time.Millisecond
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := h.gen.Generate(ctx, distinct(i))
		require.NoError(t, err)
	}
	require.Equal(t, models.CircuitOpen, h.gen.ProviderStates()[0].State)

	healthy.Store(true)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, models.CircuitHalfOpen, h.gen.ProviderStates()[0].State)

	result, err := h.gen.Generate(ctx, distinct(10))
	require.NoError(t, err)
	assert.Equal(t, "openai", result.Source)
	assert.Equal(t, int32(3), openai.calls.Load())

	state := h.gen.ProviderStates()[0]
	assert.Equal(t, models.CircuitClosed, state.State)
	assert.Zero(t, state.ConsecutiveFailures)
	assert.True(t, state.CircuitOpenUntil.IsZero())
}

func TestGenerate_FailedProbeReopens(t *testing.T) {
	openai := failing("openai", http.StatusServiceUnavailable)
	h := newHarness(t, []string{"openai"}, []providers.Provider{openai}, func(cfg *Config, _ *Components) {
		cfg.MaxRetries = 0
		cfg.FailureThreshold = 1
		cfg.CircuitCooldown = 30 * time.Millisecond
	})
	ctx := context.Background()

	_, err := h.gen.Generate(ctx, distinct(0))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	_, err = h.gen.Generate(ctx, distinct(1))
	require.NoError(t, err)

	assert.Equal(t, int32(2), openai.calls.Load())
	assert.Equal(t, models.CircuitOpen, h.gen.ProviderStates()[0].State)
	assert.Len(t, h.events.ofType(analytics.EventProviderCircuitOpened), 2)
}

// hangingProvider fails with 503 until hang is set, then blocks until the caller gives up
func hangingProvider(name string, hang, healthy *atomic.Bool) *spyProvider {
	return &spyProvider{name: name, respond: func(ctx context.Context, _ int32) (*providers.GenerateResponse, error) {
		switch {
		case healthy.Load():
			return &providers.GenerateResponse{Text: "Back online."}, nil
		case hang.Load():
			<-ctx.Done()
			return nil, providers.ClassifyTransport(name, ctx.Err())
		default:
			return nil, providers.ClassifyStatus(name, http.StatusServiceUnavailable, "down")
		}
	}}
}

func TestGenerate_CancelledProbeKeepsCircuitHalfOpen(t *testing.T) {
	var hang, healthy atomic.Bool
	openai := hangingProvider("openai", &hang, &healthy)
	h := newHarness(t, []string{"openai"}, []providers.Provider{openai}, func(cfg *Config, _ *Components) {
		cfg.MaxRetries = 0
		cfg.FailureThreshold = 3
		cfg.CircuitCooldown = 30 * time.Millisecond
	})

	for i := 0; i < 3; i++ {
		_, err := h.gen.Generate(context.Background(), distinct(i))
		require.NoError(t, err)
	}
	require.Equal(t, models.CircuitOpen, h.gen.ProviderStates()[0].State)
	time.Sleep(50 * time.Millisecond)

	hang.Store(true)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	result, err := h.gen.Generate(ctx, distinct(10))
	require.NoError(t, err)
	assert.Equal(t, models.SourceTemplate, result.Source)
	assert.Equal(t, int32(4), openai.calls.Load())

	state := h.gen.ProviderStates()[0]
	assert.Equal(t, models.CircuitHalfOpen, state.State)
	assert.Equal(t, uint32(3), state.ConsecutiveFailures)

	// the probe slot is free again; a real success closes the circuit
	healthy.Store(true)
	result, err = h.gen.Generate(context.Background(), distinct(11))
	require.NoError(t, err)
	assert.Equal(t, "openai", result.Source)

	state = h.gen.ProviderStates()[0]
	assert.Equal(t, models.CircuitClosed, state.State)
	assert.Zero(t, state.ConsecutiveFailures)
}

func TestGenerate_CancelledCallKeepsFailureCount(t *testing.T) {
	var hang, healthy atomic.Bool
	openai := hangingProvider("openai", &hang, &healthy)
	h := newHarness(t, []string{"openai"}, []providers.Provider{openai}, func(cfg *Config, _ *Components) {
		cfg.MaxRetries = 0
		cfg.FailureThreshold = 3
	})

	for i := 0; i < 2; i++ {
		_, err := h.gen.Generate(context.Background(), distinct(i))
		require.NoError(t, err)
	}

	hang.Store(true)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.gen.Generate(ctx, distinct(2))
	require.NoError(t, err)

	state := h.gen.ProviderStates()[0]
	assert.Equal(t, models.CircuitClosed, state.State)
	assert.Equal(t, uint32(2), state.ConsecutiveFailures)

	// one more real failure reaches the threshold
	hang.Store(false)
	_, err = h.gen.Generate(context.Background(), distinct(3))
	require.NoError(t, err)
	assert.Equal(t, models.CircuitOpen, h.gen.ProviderStates()[0].State)
}

func TestGenerate_BudgetExhaustedSkipsProvider(t *testing.T) {
	openai := succeeding("openai")
	gemini := succeeding("gemini")
	ledger := budget.NewLedger(map[string]int64{"openai": 1}, zap.NewNop())
	ledger.Record("openai", budget.FromCents(1))

	h := newHarness(t, []string{"openai", "gemini"}, []providers.Provider{openai, gemini}, func(_ *Config, c *Components) {
		c.Ledger = ledger
	})

	result, err := h.gen.Generate(context.Background(), grandPlaza())
	require.NoError(t, err)
	assert.Equal(t, "gemini", result.Source)
	assert.Zero(t, openai.calls.Load())

	states := h.gen.ProviderStates()
	require.Len(t, states, 2)
	assert.Equal(t, "gemini", states[0].Name)
	assert.True(t, states[0].Enabled)
	assert.Equal(t, "openai", states[1].Name)
	assert.False(t, states[1].Enabled)
}

func TestGenerate_ThrottledProviderIsSkipped(t *testing.T) {
	openai := succeeding("openai")
	h := newHarness(t, []string{"openai"}, []providers.Provider{openai}, func(_ *Config, c *Components) {
		c.Throttle = ratelimit.NewProviderThrottle(0.001, 1, zap.NewNop())
	})
	ctx := context.Background()

	first, err := h.gen.Generate(ctx, distinct(0))
	require.NoError(t, err)
	assert.Equal(t, "openai", first.Source)

	second, err := h.gen.Generate(ctx, distinct(1))
	require.NoError(t, err)
	assert.Equal(t, models.SourceTemplate, second.Source)
	assert.Equal(t, int32(1), openai.calls.Load())
}

func TestGenerate_VariantOrder(t *testing.T) {
	openai := succeeding("openai")
	gemini := succeeding("gemini")
	assigner, err := experiment.NewAssigner(experiment.Config{
		Enabled:        true,
		ControlOrder:   []string{"openai", "gemini"},
		TreatmentOrder: []string{"gemini", "openai"},
	})
	require.NoError(t, err)

	h := newHarness(t, nil, []providers.Provider{openai, gemini}, func(_ *Config, c *Components) {
		c.Assigner = assigner
	})

	seen := map[string]string{}
	for i := 0; i < 64 && len(seen) < 2; i++ {
		req := distinct(i)
		req.SessionID = fmt.Sprintf("session-%d", i)

		result, err := h.gen.Generate(context.Background(), req)
		require.NoError(t, err)

		want := assigner.Assign(req.SessionID)
		assert.Equal(t, want.Variant, result.Variant)
		assert.Equal(t, want.ProviderOrder[0], result.Source)
		seen[result.Variant] = result.Source
	}

	assert.Equal(t, "openai", seen[experiment.VariantControl])
	assert.Equal(t, "gemini", seen[experiment.VariantTreatment])
}

func TestGenerate_CancelledRequestReturnsUncachedTemplate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	openai := &spyProvider{name: "openai", respond: func(ctx context.Context, _ int32) (*providers.GenerateResponse, error) {
		cancel()
		return nil, providers.ClassifyTransport("openai", ctx.Err())
	}}
	gemini := succeeding("gemini")
	h := newHarness(t, []string{"openai", "gemini"}, []providers.Provider{openai, gemini})

	result, err := h.gen.Generate(ctx, grandPlaza())
	require.NoError(t, err)

	assert.Equal(t, models.SourceTemplate, result.Source)
	assert.NotEmpty(t, result.Text)
	assert.Equal(t, int32(1), openai.calls.Load())
	assert.Zero(t, gemini.calls.Load())
	assert.Zero(t, h.cache.Len())

	fallbacks := h.events.ofType(analytics.EventGenerationFallback)
	require.Len(t, fallbacks, 1)
	assert.Equal(t, "cancelled", fallbacks[0].Details["reason"])

	// the caller going away is not a provider failure
	assert.Zero(t, h.gen.ProviderStates()[1].ConsecutiveFailures)
}

func TestGenerate_AlreadyCancelledContext(t *testing.T) {
	openai := succeeding("openai")
	h := newHarness(t, []string{"openai"}, []providers.Provider{openai})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.gen.Generate(ctx, grandPlaza())
	require.NoError(t, err)
	assert.Equal(t, models.SourceTemplate, result.Source)
	assert.Zero(t, openai.calls.Load())
	assert.Zero(t, h.cache.Len())
}

func TestGenerate_ValidationErrors(t *testing.T) {
	h := newHarness(t, []string{"openai"}, []providers.Provider{succeeding("openai")})

	tests := []struct {
		name   string
		mutate func(r *models.ReviewRequest)
		field  string
	}{
		{"blank hotel", func(r *models.ReviewRequest) { r.HotelName = "   " }, "hotel_name"},
		{"rating too high", func(r *models.ReviewRequest) { r.Rating = 6 }, "rating"},
		{"missing rating", func(r *models.ReviewRequest) { r.Rating = 0 }, "rating"},
		{"unknown language", func(r *models.ReviewRequest) { r.Language = "xx" }, "language"},
		{"unknown platform", func(r *models.ReviewRequest) { r.Platform = "yelp" }, "platform"},
		{"unknown highlight", func(r *models.ReviewRequest) { r.Highlights = []models.Highlight{"casino"} }, "highlights[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := grandPlaza()
			tt.mutate(req)

			result, err := h.gen.Generate(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, services.IsValidationError(err))
			assert.Contains(t, services.GetErrorDetails(err), tt.field)
		})
	}

	t.Run("nil request", func(t *testing.T) {
		_, err := h.gen.Generate(context.Background(), nil)
		assert.True(t, services.IsValidationError(err))
	})
}

func TestGenerate_DoesNotMutateRequest(t *testing.T) {
	h := newHarness(t, []string{"openai"}, []providers.Provider{succeeding("openai")})

	req := grandPlaza()
	req.HotelName = "  Grand Plaza  "
	req.Highlights = []models.Highlight{"Staff", "cleanliness"}

	_, err := h.gen.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "  Grand Plaza  ", req.HotelName)
	assert.Equal(t, []models.Highlight{"Staff", "cleanliness"}, req.Highlights)
}

func TestBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	maxWait := time.Second

	for attempt := 0; attempt < 6; attempt++ {
		want := base << attempt
		if want > maxWait {
			want = maxWait
		}
		for i := 0; i < 20; i++ {
			got := backoff(base, maxWait, attempt)
			assert.LessOrEqual(t, got, maxWait)
			assert.GreaterOrEqual(t, got, time.Duration(float64(want)*(1-jitterFraction)))
			assert.LessOrEqual(t, got, time.Duration(float64(want)*(1+jitterFraction)))
		}
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{MaxRetries: -1, BackoffBase: time.Second, BackoffMax: time.Millisecond}.withDefaults()

	assert.Equal(t, DefaultConfig().AttemptTimeout, cfg.AttemptTimeout)
	assert.Zero(t, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.BackoffMax)
	assert.Equal(t, uint32(3), cfg.FailureThreshold)
}
