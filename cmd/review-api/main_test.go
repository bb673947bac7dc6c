package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/upb/review-generator/app"
	"github.com/upb/review-generator/config"
	"github.com/upb/review-generator/routes"
)

func TestMain(m *testing.M) {
	os.Setenv("ENVIRONMENT", "test")
	os.Setenv("LOG_LEVEL", "error")

	code := m.Run()

	os.Exit(code)
}

func TestInitLogger(t *testing.T) {
	t.Run("default json logger", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "info")
		t.Setenv("LOG_FORMAT", "json")

		logger, err := initLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()
	})

	t.Run("development console logger", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "console")

		logger, err := initLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()
	})

	t.Run("level is case insensitive", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "WARN")

		logger, err := initLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "invalid")
		t.Setenv("LOG_FORMAT", "json")

		logger, err := initLogger()
		assert.Error(t, err)
		assert.Nil(t, logger)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("defaults when not set", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("LOG_FORMAT", "")

		logger, err := initLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()
	})
}

func TestApplicationStartup(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	deps, err := app.NewDependencies(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer deps.Close(ctx)

	handler := routes.SetupRoutes(deps)
	require.NotNil(t, handler)

	ts := httptest.NewServer(handler)
	defer ts.Close()

	t.Run("health check", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("generates a template review without providers", func(t *testing.T) {
		body := `{"hotel_name":"Seaside Inn","language":"es","platform":"booking","rating":4,"highlights":["breakfast"]}`
		resp, err := http.Post(ts.URL+"/api/v1/reviews", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var envelope struct {
			Data struct {
				Text   string `json:"text"`
				Source string `json:"source"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
		assert.Equal(t, "template", envelope.Data.Source)
		assert.Contains(t, envelope.Data.Text, "Seaside Inn")
	})
}

// Test helpers

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Generation: config.GenerationConfig{
			AttemptTimeout:   time.Second,
			MaxRetries:       1,
			BackoffBase:      time.Millisecond,
			BackoffMax:       5 * time.Millisecond,
			FailureThreshold: 3,
			CircuitCooldown:  time.Minute,
			MaxTokens:        400,
			Temperature:      0.7,
			MaxResponseChars: 4000,
		},
		Cache: config.CacheConfig{
			MaxEntries:      100,
			TTL:             time.Hour,
			FallbackTTL:     5 * time.Minute,
			CleanupInterval: time.Minute,
		},
		Budget: config.BudgetConfig{
			Retention:       24 * time.Hour,
			CleanupInterval: time.Hour,
		},
		Experiment: config.ExperimentConfig{
			ControlOrder: []string{"openai", "gemini"},
		},
		Analytics: config.AnalyticsConfig{
			BufferSize:     16,
			Workers:        1,
			WebhookTimeout: time.Second,
		},
		RateLimit: config.RateLimitConfig{
			RequestsPerMinute: 100,
			ProviderRPS:       100,
			ProviderBurst:     10,
		},
		Observability: config.ObservabilityConfig{
			LogLevel:  "error",
			LogFormat: "json",
		},
	}
}
