package analytics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Sink delivers events to an analytics backend
type Sink interface {
	Name() string
	Send(ctx context.Context, event *Event) error
}

// LogSink writes events to the application log
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("analytics")}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Send(_ context.Context, event *Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID.String()),
		zap.String("type", string(event.Type)),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.SessionID != "" {
		fields = append(fields, zap.String("session_id", event.SessionID))
	}
	if event.Variant != "" {
		fields = append(fields, zap.String("variant", event.Variant))
	}
	if event.Provider != "" {
		fields = append(fields, zap.String("provider", event.Provider))
	}
	if event.LatencyMs > 0 {
		fields = append(fields, zap.Int64("latency_ms", event.LatencyMs))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}
	s.logger.Info("analytics event", fields...)
	return nil
}

// WebhookSink posts each event as JSON to a collector URL
type WebhookSink struct {
	url        string
	httpClient *http.Client
}

// NewWebhookSink creates a WebhookSink with a per-request timeout
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &WebhookSink{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *WebhookSink) Name() string { return "webhook" }

func (s *WebhookSink) Send(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
