package analytics

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/upb/review-generator/internal/observability"
)

// Emitter accepts analytics events without blocking the caller
type Emitter interface {
	Emit(event *Event) bool
}

// Config holds configuration for the Service
type Config struct {
	BufferSize  int // Size of the event buffer channel
	WorkerCount int // Number of concurrent workers
	SendTimeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  1000,
		WorkerCount: 2,
		SendTimeout: 5 * time.Second,
	}
}

// Service fans events out to its sinks from a pool of background workers.
// Emit never blocks; events are dropped when the buffer is full.
type Service struct {
	sinks       []Sink
	logger      *zap.Logger
	eventChan   chan *Event
	workerCount int
	bufferSize  int
	sendTimeout time.Duration
	wg          sync.WaitGroup
	mu          sync.Mutex
	started     bool
	stopped     bool

	emitted    atomic.Uint64
	dropped    atomic.Uint64
	sinkErrors atomic.Uint64
}

// NewService creates a new analytics Service
func NewService(sinks []Sink, logger *zap.Logger, config Config) *Service {
	defaults := DefaultConfig()
	if config.BufferSize <= 0 {
		config.BufferSize = defaults.BufferSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = defaults.WorkerCount
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = defaults.SendTimeout
	}

	return &Service{
		sinks:       sinks,
		logger:      logger,
		eventChan:   make(chan *Event, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
		sendTimeout: config.SendTimeout,
	}
}

// Start starts the background workers
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("analytics service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started analytics service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize),
		zap.Int("sinks", len(s.sinks)))

	return nil
}

// Stop stops accepting events and waits for queued ones to be delivered
func (s *Service) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return fmt.Errorf("analytics service not running")
	}
	s.stopped = true
	close(s.eventChan)
	s.mu.Unlock()

	s.logger.Info("stopping analytics service", zap.Int("pending_events", len(s.eventChan)))

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("analytics service stopped gracefully")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("analytics service stop timeout after %v", timeout)
	}
}

// Emit queues an event for delivery. It returns false when the event was dropped.
func (s *Service) Emit(event *Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.stopped {
		s.drop(event, "service not running")
		return false
	}

	select {
	case s.eventChan <- event:
		s.emitted.Add(1)
		observability.RecordAnalyticsEvent(string(event.Type), "queued")
		return true
	default:
		s.drop(event, "buffer full")
		return false
	}
}

func (s *Service) drop(event *Event, reason string) {
	s.dropped.Add(1)
	observability.RecordAnalyticsEvent(string(event.Type), "dropped")
	s.logger.Warn("dropping analytics event",
		zap.String("type", string(event.Type)),
		zap.String("reason", reason))
}

// worker delivers events until the channel is closed
func (s *Service) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("analytics worker started", zap.Int("worker_id", id))

	for event := range s.eventChan {
		s.deliver(id, event)
	}

	s.logger.Debug("analytics worker stopped", zap.Int("worker_id", id))
}

// deliver sends one event to every sink. Failures are logged only.
func (s *Service) deliver(workerID int, event *Event) {
	for _, sink := range s.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
		err := sink.Send(ctx, event)
		cancel()

		if err != nil {
			s.sinkErrors.Add(1)
			observability.RecordAnalyticsEvent(string(event.Type), "failed")
			s.logger.Error("failed to deliver analytics event",
				zap.Int("worker_id", workerID),
				zap.String("sink", sink.Name()),
				zap.String("type", string(event.Type)),
				zap.Error(err))
			continue
		}
		observability.RecordAnalyticsEvent(string(event.Type), "delivered")
	}
}

// Stats represents analytics service statistics
type Stats struct {
	BufferSize    int    `json:"buffer_size"`
	PendingEvents int    `json:"pending_events"`
	WorkerCount   int    `json:"worker_count"`
	Started       bool   `json:"started"`
	Emitted       uint64 `json:"emitted"`
	Dropped       uint64 `json:"dropped"`
	SinkErrors    uint64 `json:"sink_errors"`
}

// GetStats returns statistics about the analytics service
func (s *Service) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		BufferSize:    s.bufferSize,
		PendingEvents: len(s.eventChan),
		WorkerCount:   s.workerCount,
		Started:       s.started && !s.stopped,
		Emitted:       s.emitted.Load(),
		Dropped:       s.dropped.Load(),
		SinkErrors:    s.sinkErrors.Load(),
	}
}

// NopEmitter discards every event
type NopEmitter struct{}

func (NopEmitter) Emit(*Event) bool { return true }
