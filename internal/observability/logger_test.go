package observability

import (
	"context"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_AddsContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLogger(zap.New(core))

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-123")
	ctx = WithSessionID(ctx, "session-9")

	logger.Info(ctx, "generated", zap.String("source", "openai"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "session-9", fields["session_id"])
	assert.Equal(t, "openai", fields["source"])
}

func TestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLogger(zap.New(core))
	ctx := context.Background()

	logger.Debug(ctx, "d")
	logger.Info(ctx, "i")
	logger.Warn(ctx, "w")
	logger.Error(ctx, "e")

	require.Equal(t, 4, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[3].Level)
	assert.Empty(t, logs.All()[0].ContextMap())
}

func TestNewLogger_NilBase(t *testing.T) {
	assert.NotPanics(t, func() {
		NewLogger(nil).Info(context.Background(), "ignored")
	})
}

func TestSessionID(t *testing.T) {
	assert.Empty(t, SessionID(context.Background()))
	assert.Equal(t, "abc", SessionID(WithSessionID(context.Background(), "abc")))
}
