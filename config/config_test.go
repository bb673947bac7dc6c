package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default configuration",
			envVars: map[string]string{
				"ENVIRONMENT": "development",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "development", cfg.Environment)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Generation.AttemptTimeout)
				assert.Equal(t, 2, cfg.Generation.MaxRetries)
				assert.Equal(t, 3, cfg.Generation.FailureThreshold)
				assert.Equal(t, 60*time.Second, cfg.Generation.CircuitCooldown)
				assert.Equal(t, time.Hour, cfg.Cache.TTL)
				assert.Equal(t, 5*time.Minute, cfg.Cache.FallbackTTL)
				assert.Equal(t, []string{"openai", "gemini"}, cfg.Experiment.ControlOrder)
				assert.Equal(t, []string{"gemini", "openai"}, cfg.Experiment.TreatmentOrder)
				assert.Equal(t, int64(500), cfg.Budget.DailyCapCents["openai"])
				assert.Empty(t, cfg.Cache.RedisURL)
				assert.Empty(t, cfg.ConfigFile)
			},
		},
		{
			name: "production with provider and auth",
			envVars: map[string]string{
				"ENVIRONMENT":     "production",
				"SERVER_PORT":     "9000",
				"GEMINI_API_KEY":  "g-key",
				"AUTH_JWT_SECRET": "s3cret",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsProduction())
				assert.False(t, cfg.IsDevelopment())
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, "g-key", cfg.Providers.Gemini.APIKey)
			},
		},
		{
			name: "generation and cache tuning",
			envVars: map[string]string{
				"GENERATION_ATTEMPT_TIMEOUT":  "2s",
				"GENERATION_MAX_RETRIES":      "0",
				"GENERATION_CIRCUIT_COOLDOWN": "30s",
				"GENERATION_TEMPERATURE":      "0.2",
				"CACHE_MAX_ENTRIES":           "50",
				"REDIS_URL":                   "redis://localhost:6379/0",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2*time.Second, cfg.Generation.AttemptTimeout)
				assert.Equal(t, 0, cfg.Generation.MaxRetries)
				assert.Equal(t, 30*time.Second, cfg.Generation.CircuitCooldown)
				assert.Equal(t, 0.2, cfg.Generation.Temperature)
				assert.Equal(t, 50, cfg.Cache.MaxEntries)
				assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
			},
		},
		{
			name: "experiment orders and budget caps",
			envVars: map[string]string{
				"EXPERIMENT_CONTROL_ORDER":  "gemini",
				"EXPERIMENT_ENABLED":        "false",
				"BUDGET_OPENAI_DAILY_CENTS": "0",
				"BUDGET_GEMINI_DAILY_CENTS": "1250",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"gemini"}, cfg.Experiment.ControlOrder)
				assert.False(t, cfg.Experiment.Enabled)
				assert.Equal(t, int64(0), cfg.Budget.DailyCapCents["openai"])
				assert.Equal(t, int64(1250), cfg.Budget.DailyCapCents["gemini"])
			},
		},
		{
			name: "observability configuration",
			envVars: map[string]string{
				"LOG_LEVEL":       "debug",
				"LOG_FORMAT":      "console",
				"METRICS_ENABLED": "false",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Observability.LogLevel)
				assert.Equal(t, "console", cfg.Observability.LogFormat)
				assert.False(t, cfg.Observability.MetricsEnabled)
			},
		},
		{
			name: "PORT env var takes precedence over SERVER_PORT",
			envVars: map[string]string{
				"PORT":        "9443",
				"SERVER_PORT": "9000",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9443, cfg.Server.Port)
			},
		},
		{
			name: "production without any provider",
			envVars: map[string]string{
				"ENVIRONMENT":     "production",
				"AUTH_JWT_SECRET": "s3cret",
			},
			wantErr: true,
		},
		{
			name: "production without jwt secret",
			envVars: map[string]string{
				"ENVIRONMENT":    "production",
				"OPENAI_API_KEY": "sk-xxxxx",
			},
			wantErr: true,
		},
		{
			name: "missing explicit config file",
			envVars: map[string]string{
				"CONFIG_FILE": "/does/not/exist.yaml",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg, err := New(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestNew_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "review.yaml")
	yamlBody := `
openai:
  api_key: file-key
  model: gpt-4o
generation:
  max_retries: 4
  attempt_timeout: 3s
experiment:
  treatment_order: "gemini"
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))

	os.Clearenv()
	os.Setenv("CONFIG_FILE", path)
	os.Setenv("OPENAI_MODEL", "gpt-4.1-mini")

	cfg, err := New(context.Background())
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "file-key", cfg.Providers.OpenAI.APIKey)
	// env wins over file
	assert.Equal(t, "gpt-4.1-mini", cfg.Providers.OpenAI.Model)
	assert.Equal(t, 4, cfg.Generation.MaxRetries)
	assert.Equal(t, 3*time.Second, cfg.Generation.AttemptTimeout)
	assert.Equal(t, []string{"gemini"}, cfg.Experiment.TreatmentOrder)
	// untouched keys keep defaults
	assert.Equal(t, "gemini-2.0-flash", cfg.Providers.Gemini.Model)
}

func TestFileKey(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"OPENAI_API_KEY", "openai.api_key"},
		{"GENERATION_MAX_RETRIES", "generation.max_retries"},
		{"BUDGET_OPENAI_DAILY_CENTS", "budget.openai_daily_cents"},
		{"ENVIRONMENT", "environment"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, fileKey(tt.env))
		})
	}
}

func validConfig() *Config {
	return &Config{
		Environment: "development",
		Server:      ServerConfig{Port: 8080},
		Generation: GenerationConfig{
			AttemptTimeout:   5 * time.Second,
			MaxRetries:       2,
			FailureThreshold: 3,
			CircuitCooldown:  time.Minute,
			MaxResponseChars: 4000,
		},
		Cache: CacheConfig{
			MaxEntries:      100,
			TTL:             time.Hour,
			FallbackTTL:     5 * time.Minute,
			CleanupInterval: time.Minute,
		},
		Budget: BudgetConfig{
			CleanupInterval: time.Hour,
		},
		Experiment: ExperimentConfig{
			ControlOrder: []string{"openai"},
		},
		Observability: ObservabilityConfig{
			LogLevel: "info",
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid development config",
			mutate: func(c *Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
			errMsg:  "out of range",
		},
		{
			name:    "zero attempt timeout",
			mutate:  func(c *Config) { c.Generation.AttemptTimeout = 0 },
			wantErr: true,
			errMsg:  "attempt timeout",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Generation.MaxRetries = -1 },
			wantErr: true,
			errMsg:  "max retries",
		},
		{
			name:    "zero failure threshold",
			mutate:  func(c *Config) { c.Generation.FailureThreshold = 0 },
			wantErr: true,
			errMsg:  "failure threshold",
		},
		{
			name:    "zero cleanup interval",
			mutate:  func(c *Config) { c.Cache.CleanupInterval = 0 },
			wantErr: true,
			errMsg:  "cleanup intervals",
		},
		{
			name:    "empty control order",
			mutate:  func(c *Config) { c.Experiment.ControlOrder = nil },
			wantErr: true,
			errMsg:  "control order",
		},
		{
			name:    "missing log level",
			mutate:  func(c *Config) { c.Observability.LogLevel = "" },
			wantErr: true,
			errMsg:  "log level is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		want        bool
	}{
		{"production", "production", true},
		{"prod", "prod", true},
		{"development", "development", false},
		{"staging", "staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment}
			assert.Equal(t, tt.want, cfg.IsProduction())
		})
	}
}

func TestConfig_RequestDeadline(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{RequestTimeout: 25 * time.Second},
		Generation: GenerationConfig{
			AttemptTimeout: 5 * time.Second,
			MaxRetries:     2,
			BackoffMax:     2 * time.Second,
		},
		Experiment: ExperimentConfig{
			ControlOrder:   []string{"openai", "gemini"},
			TreatmentOrder: []string{"gemini"},
		},
	}

	// 2 providers x (3 attempts x 5s + 2 backoffs x 2s) + slack
	assert.Equal(t, 40*time.Second, cfg.GenerationBudget())
	assert.Equal(t, 40*time.Second, cfg.RequestDeadline())

	cfg.Server.RequestTimeout = time.Minute
	assert.Equal(t, time.Minute, cfg.RequestDeadline())

	cfg.Server.RequestTimeout = 0
	cfg.Generation.MaxRetries = 0
	assert.Equal(t, 12*time.Second, cfg.RequestDeadline())
}

func TestNew_DefaultTimeoutsCoverGeneration(t *testing.T) {
	os.Clearenv()
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := New(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, cfg.Server.RequestTimeout, cfg.GenerationBudget())
	assert.Greater(t, cfg.Server.WriteTimeout, cfg.Server.RequestTimeout)
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "0.0.0.0", Port: 8080}
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoaderHelpers(t *testing.T) {
	os.Clearenv()
	l := &loader{}

	t.Run("int", func(t *testing.T) {
		os.Setenv("TEST_INT", "42")
		assert.Equal(t, 42, l.getEnvAsInt("TEST_INT", 10))
		os.Setenv("TEST_INT", "not-a-number")
		assert.Equal(t, 10, l.getEnvAsInt("TEST_INT", 10))
		assert.Equal(t, 10, l.getEnvAsInt("TEST_INT_MISSING", 10))
	})

	t.Run("bool", func(t *testing.T) {
		os.Setenv("TEST_BOOL", "false")
		assert.False(t, l.getEnvAsBool("TEST_BOOL", true))
		os.Setenv("TEST_BOOL", "maybe")
		assert.True(t, l.getEnvAsBool("TEST_BOOL", true))
	})

	t.Run("slice", func(t *testing.T) {
		os.Setenv("TEST_SLICE", " openai , ,gemini")
		assert.Equal(t, []string{"openai", "gemini"}, l.getEnvAsSlice("TEST_SLICE", nil))
		os.Setenv("TEST_SLICE", " , ")
		assert.Equal(t, []string{"x"}, l.getEnvAsSlice("TEST_SLICE", []string{"x"}))
	})

	t.Run("duration", func(t *testing.T) {
		os.Setenv("TEST_DURATION", "250ms")
		assert.Equal(t, 250*time.Millisecond, l.getEnvAsDuration("TEST_DURATION", time.Second))
		os.Setenv("TEST_DURATION", "soon")
		assert.Equal(t, time.Second, l.getEnvAsDuration("TEST_DURATION", time.Second))
	})
}
