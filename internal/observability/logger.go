package observability

import (
	"context"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Logger provides structured logging with context awareness.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
}

// Field represents a structured log field.
type Field = zap.Field

type sessionKey struct{}

// WithSessionID stores the guest session ID for log correlation
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionID returns the session ID stored by WithSessionID
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

type zapLogger struct {
	base *zap.Logger
}

// NewLogger wraps base so every entry carries the request and session IDs found in ctx
func NewLogger(base *zap.Logger) Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &zapLogger{base: base}
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.base.Debug(msg, withContext(ctx, fields)...)
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.base.Info(msg, withContext(ctx, fields)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.base.Warn(msg, withContext(ctx, fields)...)
}

func (l *zapLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.base.Error(msg, withContext(ctx, fields)...)
}

func withContext(ctx context.Context, fields []Field) []Field {
	if ctx == nil {
		return fields
	}
	out := make([]Field, 0, len(fields)+2)
	if id := middleware.GetReqID(ctx); id != "" {
		out = append(out, zap.String("request_id", id))
	}
	if id := SessionID(ctx); id != "" {
		out = append(out, zap.String("session_id", id))
	}
	return append(out, fields...)
}
