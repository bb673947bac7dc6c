package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/upb/review-generator/config"
	"github.com/upb/review-generator/middleware"
	"github.com/upb/review-generator/services/analytics"
	"github.com/upb/review-generator/services/budget"
	"github.com/upb/review-generator/services/cache"
	"github.com/upb/review-generator/services/experiment"
	"github.com/upb/review-generator/services/generation"
	"github.com/upb/review-generator/services/prompt"
	"github.com/upb/review-generator/services/providers"
	"github.com/upb/review-generator/services/providers/gemini"
	"github.com/upb/review-generator/services/providers/openai"
	"github.com/upb/review-generator/services/ratelimit"
	"github.com/upb/review-generator/services/template"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger
	Redis  *redis.Client // nil when the shared cache tier is disabled

	// Generation collaborators
	ProviderRegistry *providers.Registry
	LocalCache       *cache.MemoryCache
	Cache            cache.ResponseCache
	Ledger           *budget.Ledger
	Throttle         *ratelimit.ProviderThrottle
	Assigner         *experiment.Assigner
	Analytics        *analytics.Service
	Generator        *generation.HybridGenerator

	// Auth
	JWTValidator   *middleware.JWTValidator
	AuthMiddleware *middleware.AuthMiddleware

	stopWorkers context.CancelFunc
	workers     sync.WaitGroup
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initProviders(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	if err := deps.initCache(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	deps.Ledger = budget.NewLedger(cfg.Budget.DailyCapCents, logger.Named("budget"))
	deps.Throttle = ratelimit.NewProviderThrottle(cfg.RateLimit.ProviderRPS, cfg.RateLimit.ProviderBurst, logger.Named("throttle"))

	assigner, err := experiment.NewAssigner(experiment.Config{
		Enabled:        cfg.Experiment.Enabled,
		ControlOrder:   cfg.Experiment.ControlOrder,
		TreatmentOrder: cfg.Experiment.TreatmentOrder,
	})
	if err != nil {
		deps.closeRedis()
		return nil, fmt.Errorf("failed to initialize experiment: %w", err)
	}
	deps.Assigner = assigner

	if err := deps.initAnalytics(cfg); err != nil {
		deps.closeRedis()
		return nil, fmt.Errorf("failed to initialize analytics: %w", err)
	}

	if err := deps.initGenerator(cfg); err != nil {
		_ = deps.Analytics.Stop(time.Second)
		deps.closeRedis()
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}

	deps.initAuth(cfg)
	deps.startWorkers(cfg)

	logger.Info("all dependencies initialized successfully",
		zap.Strings("providers", deps.ProviderRegistry.List()),
		zap.String("cache", deps.Cache.Stats().Backend),
		zap.Bool("experiment", cfg.Experiment.Enabled))
	return deps, nil
}

// initProviders registers every provider that has an API key
func (d *Dependencies) initProviders(ctx context.Context, cfg *config.Config) error {
	registry := providers.NewRegistry()
	maxChars := cfg.Generation.MaxResponseChars

	if cfg.Providers.OpenAI.APIKey != "" {
		adapter := openai.NewAdapter(providers.Config{
			APIKey:           cfg.Providers.OpenAI.APIKey,
			BaseURL:          cfg.Providers.OpenAI.BaseURL,
			Model:            cfg.Providers.OpenAI.Model,
			MaxResponseChars: maxChars,
		})
		if err := registry.Register(adapter); err != nil {
			return err
		}
		d.Logger.Info("registered provider", zap.String("provider", adapter.Name()), zap.String("model", adapter.Model()))
	}

	if cfg.Providers.Gemini.APIKey != "" {
		adapter, err := gemini.NewAdapter(ctx, providers.Config{
			APIKey:           cfg.Providers.Gemini.APIKey,
			BaseURL:          cfg.Providers.Gemini.BaseURL,
			Model:            cfg.Providers.Gemini.Model,
			MaxResponseChars: maxChars,
		})
		if err != nil {
			return fmt.Errorf("gemini: %w", err)
		}
		if err := registry.Register(adapter); err != nil {
			return err
		}
		d.Logger.Info("registered provider", zap.String("provider", adapter.Name()), zap.String("model", adapter.Model()))
	}

	if registry.Count() == 0 {
		d.Logger.Warn("no text generation providers configured, every review will use templates")
	}

	d.ProviderRegistry = registry
	return nil
}

// initCache builds the in-process cache and, with REDIS_URL set, the shared tier behind it
func (d *Dependencies) initCache(ctx context.Context, cfg *config.Config) error {
	d.LocalCache = cache.NewMemoryCache(cfg.Cache.MaxEntries)
	d.Cache = d.LocalCache

	if cfg.Cache.RedisURL == "" {
		return nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
	if err != nil {
		return err
	}
	d.Redis = client
	shared := cache.NewRedisCache(client, cfg.Cache.RedisKeyPrefix, d.Logger.Named("cache"))
	d.Cache = cache.NewTieredCache(d.LocalCache, shared)
	d.Logger.Info("redis cache tier enabled", zap.String("prefix", cfg.Cache.RedisKeyPrefix))
	return nil
}

func (d *Dependencies) initAnalytics(cfg *config.Config) error {
	sinks := []analytics.Sink{analytics.NewLogSink(d.Logger)}
	if cfg.Analytics.WebhookURL != "" {
		sinks = append(sinks, analytics.NewWebhookSink(cfg.Analytics.WebhookURL, cfg.Analytics.WebhookTimeout))
	}

	d.Analytics = analytics.NewService(sinks, d.Logger.Named("analytics"), analytics.Config{
		BufferSize:  cfg.Analytics.BufferSize,
		WorkerCount: cfg.Analytics.Workers,
		SendTimeout: cfg.Analytics.WebhookTimeout,
	})
	return d.Analytics.Start()
}

func (d *Dependencies) initGenerator(cfg *config.Config) error {
	g := cfg.Generation
	threshold := g.FailureThreshold
	if threshold < 1 {
		threshold = 1
	}

	generator, err := generation.NewHybridGenerator(generation.Config{
		AttemptTimeout:   g.AttemptTimeout,
		MaxRetries:       g.MaxRetries,
		BackoffBase:      g.BackoffBase,
		BackoffMax:       g.BackoffMax,
		FailureThreshold: uint32(threshold),
		CircuitCooldown:  g.CircuitCooldown,
		CacheTTL:         cfg.Cache.TTL,
		FallbackTTL:      cfg.Cache.FallbackTTL,
	}, generation.Components{
		Registry:  d.ProviderRegistry,
		Cache:     d.Cache,
		Ledger:    d.Ledger,
		Assigner:  d.Assigner,
		Composer:  template.NewComposer(),
		Prompts:   prompt.NewBuilder(prompt.Config{MaxTokens: g.MaxTokens, Temperature: g.Temperature}, d.Logger.Named("prompt")),
		Throttle:  d.Throttle,
		Analytics: d.Analytics,
	}, d.Logger.Named("generation"))
	if err != nil {
		return err
	}
	d.Generator = generator
	return nil
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	if cfg.Auth.JWTSecret == "" {
		d.Logger.Warn("auth JWT secret not set, admin endpoints will reject every request")
	}
	d.JWTValidator = middleware.NewJWTValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.JWTValidator, d.Logger.Named("auth"))
}

// startWorkers runs the cache sweep and ledger cleanup until Close
func (d *Dependencies) startWorkers(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	d.stopWorkers = cancel

	d.workers.Add(2)
	go func() {
		defer d.workers.Done()
		d.LocalCache.StartCleanupWorker(ctx, cfg.Cache.CleanupInterval)
	}()
	go func() {
		defer d.workers.Done()
		d.Ledger.StartCleanupWorker(ctx, cfg.Budget.CleanupInterval, cfg.Budget.Retention)
	}()
}

// Ping reports whether the shared cache tier is reachable. Without Redis it always succeeds.
func (d *Dependencies) Ping(ctx context.Context) error {
	if d.Redis == nil {
		return nil
	}
	return d.Redis.Ping(ctx).Err()
}

func (d *Dependencies) closeRedis() {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.stopWorkers != nil {
		d.stopWorkers()
		d.workers.Wait()
	}

	if d.Analytics != nil {
		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := d.Analytics.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop analytics: %w", err))
		}
	}

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		} else {
			d.Logger.Info("redis connection closed")
		}
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
