package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/v2"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Providers     ProvidersConfig
	Generation    GenerationConfig
	Cache         CacheConfig
	Budget        BudgetConfig
	Experiment    ExperimentConfig
	Analytics     AnalyticsConfig
	Auth          AuthConfig
	RateLimit     RateLimitConfig
	Observability ObservabilityConfig
	Environment   string
	// ConfigFile is the YAML file that was loaded, if any
	ConfigFile string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// ProvidersConfig holds text generation provider configurations
type ProvidersConfig struct {
	OpenAI OpenAIConfig
	Gemini GeminiConfig
}

// OpenAIConfig holds OpenAI provider configuration
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// GeminiConfig holds Gemini provider configuration
type GeminiConfig struct {
	APIKey  string
	BaseURL string // empty uses the SDK default endpoint
	Model   string
}

// GenerationConfig tunes the orchestration loop
type GenerationConfig struct {
	AttemptTimeout   time.Duration
	MaxRetries       int
	BackoffBase      time.Duration
	BackoffMax       time.Duration
	FailureThreshold int
	CircuitCooldown  time.Duration
	MaxTokens        int
	Temperature      float64
	MaxResponseChars int
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	MaxEntries      int
	TTL             time.Duration
	FallbackTTL     time.Duration
	CleanupInterval time.Duration
	RedisURL        string // empty disables the Redis tier
	RedisKeyPrefix  string
}

// BudgetConfig holds per-provider daily spend caps in cents. A cap <= 0 means unlimited.
type BudgetConfig struct {
	DailyCapCents   map[string]int64
	Retention       time.Duration
	CleanupInterval time.Duration
}

// ExperimentConfig maps variant names to provider orders
type ExperimentConfig struct {
	Enabled        bool
	ControlOrder   []string
	TreatmentOrder []string
}

// AnalyticsConfig holds analytics pipeline configuration
type AnalyticsConfig struct {
	BufferSize     int
	Workers        int
	WebhookURL     string
	WebhookTimeout time.Duration
}

// AuthConfig holds admin JWT validation settings
type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
}

// RateLimitConfig holds inbound and outbound request limits
type RateLimitConfig struct {
	RequestsPerMinute int
	ProviderRPS       float64
	ProviderBurst     int
}

// ObservabilityConfig holds monitoring and logging configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string // json or console
	MetricsEnabled bool
}

// loader resolves keys from the environment first, then the YAML file
type loader struct {
	k *koanf.Koanf
}

// New creates a new Config instance by loading environment variables and the optional YAML file
func New(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	path, err := findConfigFile()
	if err != nil {
		return nil, err
	}
	k, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	l := &loader{k: k}

	cfg := &Config{
		Environment: l.getEnv("ENVIRONMENT", "development"),
		ConfigFile:  path,
		Server: ServerConfig{
			Host:            l.getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            l.getPort(),
			ReadTimeout:     l.getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    l.getEnvAsDuration("SERVER_WRITE_TIMEOUT", 50*time.Second),
			RequestTimeout:  l.getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 45*time.Second),
			ShutdownTimeout: l.getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSOrigins:     l.getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{
				APIKey:  l.getEnv("OPENAI_API_KEY", ""),
				BaseURL: l.getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
				Model:   l.getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			},
			Gemini: GeminiConfig{
				APIKey:  l.getEnv("GEMINI_API_KEY", ""),
				BaseURL: l.getEnv("GEMINI_BASE_URL", ""),
				Model:   l.getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			},
		},
		Generation: GenerationConfig{
			AttemptTimeout:   l.getEnvAsDuration("GENERATION_ATTEMPT_TIMEOUT", 5*time.Second),
			MaxRetries:       l.getEnvAsInt("GENERATION_MAX_RETRIES", 2),
			BackoffBase:      l.getEnvAsDuration("GENERATION_BACKOFF_BASE", 200*time.Millisecond),
			BackoffMax:       l.getEnvAsDuration("GENERATION_BACKOFF_MAX", 2*time.Second),
			FailureThreshold: l.getEnvAsInt("GENERATION_FAILURE_THRESHOLD", 3),
			CircuitCooldown:  l.getEnvAsDuration("GENERATION_CIRCUIT_COOLDOWN", 60*time.Second),
			MaxTokens:        l.getEnvAsInt("GENERATION_MAX_TOKENS", 400),
			Temperature:      l.getEnvAsFloat("GENERATION_TEMPERATURE", 0.7),
			MaxResponseChars: l.getEnvAsInt("GENERATION_MAX_RESPONSE_CHARS", 4000),
		},
		Cache: CacheConfig{
			MaxEntries:      l.getEnvAsInt("CACHE_MAX_ENTRIES", 10000),
			TTL:             l.getEnvAsDuration("CACHE_TTL", time.Hour),
			FallbackTTL:     l.getEnvAsDuration("CACHE_FALLBACK_TTL", 5*time.Minute),
			CleanupInterval: l.getEnvAsDuration("CACHE_CLEANUP_INTERVAL", time.Minute),
			RedisURL:        l.getEnv("REDIS_URL", ""),
			RedisKeyPrefix:  l.getEnv("REDIS_KEY_PREFIX", "review"),
		},
		Budget: BudgetConfig{
			DailyCapCents: map[string]int64{
				"openai": l.getEnvAsInt64("BUDGET_OPENAI_DAILY_CENTS", 500),
				"gemini": l.getEnvAsInt64("BUDGET_GEMINI_DAILY_CENTS", 500),
			},
			Retention:       l.getEnvAsDuration("BUDGET_RETENTION", 30*24*time.Hour),
			CleanupInterval: l.getEnvAsDuration("BUDGET_CLEANUP_INTERVAL", time.Hour),
		},
		Experiment: ExperimentConfig{
			Enabled:        l.getEnvAsBool("EXPERIMENT_ENABLED", true),
			ControlOrder:   l.getEnvAsSlice("EXPERIMENT_CONTROL_ORDER", []string{"openai", "gemini"}),
			TreatmentOrder: l.getEnvAsSlice("EXPERIMENT_TREATMENT_ORDER", []string{"gemini", "openai"}),
		},
		Analytics: AnalyticsConfig{
			BufferSize:     l.getEnvAsInt("ANALYTICS_BUFFER_SIZE", 1000),
			Workers:        l.getEnvAsInt("ANALYTICS_WORKERS", 2),
			WebhookURL:     l.getEnv("ANALYTICS_WEBHOOK_URL", ""),
			WebhookTimeout: l.getEnvAsDuration("ANALYTICS_WEBHOOK_TIMEOUT", 3*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: l.getEnv("AUTH_JWT_SECRET", ""),
			JWTIssuer: l.getEnv("AUTH_JWT_ISSUER", "review-generator"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: l.getEnvAsInt("RATELIMIT_REQUESTS_PER_MINUTE", 30),
			ProviderRPS:       l.getEnvAsFloat("RATELIMIT_PROVIDER_RPS", 5),
			ProviderBurst:     l.getEnvAsInt("RATELIMIT_PROVIDER_BURST", 10),
		},
		Observability: ObservabilityConfig{
			LogLevel:       l.getEnv("LOG_LEVEL", "info"),
			LogFormat:      l.getEnv("LOG_FORMAT", "json"),
			MetricsEnabled: l.getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}

	g := c.Generation
	if g.AttemptTimeout <= 0 {
		return fmt.Errorf("generation attempt timeout must be positive")
	}
	if g.MaxRetries < 0 {
		return fmt.Errorf("generation max retries cannot be negative")
	}
	if g.FailureThreshold < 1 {
		return fmt.Errorf("generation failure threshold must be at least 1")
	}
	if g.CircuitCooldown <= 0 {
		return fmt.Errorf("generation circuit cooldown must be positive")
	}
	if g.MaxResponseChars <= 0 {
		return fmt.Errorf("generation max response chars must be positive")
	}

	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive")
	}
	if c.Cache.TTL <= 0 || c.Cache.FallbackTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.Cache.CleanupInterval <= 0 || c.Budget.CleanupInterval <= 0 {
		return fmt.Errorf("cleanup intervals must be positive")
	}

	if len(c.Experiment.ControlOrder) == 0 {
		return fmt.Errorf("experiment control order cannot be empty")
	}

	// Production needs at least one provider; without one every review is a template
	if c.IsProduction() {
		if c.Providers.OpenAI.APIKey == "" && c.Providers.Gemini.APIKey == "" {
			return fmt.Errorf("at least one text generation provider must be configured in production")
		}
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth JWT secret is required in production")
		}
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// generationSlack covers prompt building, template composition and the commit after a call
const generationSlack = 2 * time.Second

// GenerationBudget is the worst case for one review: every provider in the longest
// order exhausts its retries at the attempt timeout with maximal backoff, then the
// template fallback runs.
func (c *Config) GenerationBudget() time.Duration {
	providers := len(c.Experiment.ControlOrder)
	if n := len(c.Experiment.TreatmentOrder); n > providers {
		providers = n
	}

	g := c.Generation
	retries := max(g.MaxRetries, 0)
	perProvider := time.Duration(retries+1)*g.AttemptTimeout + time.Duration(retries)*g.BackoffMax
	return time.Duration(providers)*perProvider + generationSlack
}

// RequestDeadline is the per-request timeout for the router. A configured
// RequestTimeout shorter than GenerationBudget is raised to it.
func (c *Config) RequestDeadline() time.Duration {
	return max(c.Server.RequestTimeout, c.GenerationBudget())
}

// Helper functions

// lookup returns the env value for key, then the YAML value, then ""
func (l *loader) lookup(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if l.k != nil {
		return l.k.String(fileKey(key))
	}
	return ""
}

// getPort returns the server port from PORT or SERVER_PORT (default: 8080)
func (l *loader) getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return l.getEnvAsInt("SERVER_PORT", 8080)
}

func (l *loader) getEnv(key, defaultValue string) string {
	if value := l.lookup(key); value != "" {
		return value
	}
	return defaultValue
}

func (l *loader) getEnvAsInt(key string, defaultValue int) int {
	valueStr := l.lookup(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func (l *loader) getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := l.lookup(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func (l *loader) getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := l.lookup(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func (l *loader) getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := l.lookup(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func (l *loader) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := l.lookup(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice splits a comma-separated value, dropping blanks
func (l *loader) getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := l.lookup(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
