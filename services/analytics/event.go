package analytics

import (
	"time"

	"github.com/google/uuid"
)

// EventType names an analytics event
type EventType string

const (
	EventGenerationSucceeded   EventType = "generation_succeeded"
	EventGenerationFallback    EventType = "generation_fallback"
	EventProviderCircuitOpened EventType = "provider_circuit_opened"
)

// Event is a fire-and-forget analytics record
type Event struct {
	ID          uuid.UUID              `json:"id"`
	Type        EventType              `json:"type"`
	Timestamp   time.Time              `json:"timestamp"`
	SessionID   string                 `json:"session_id,omitempty"`
	Variant     string                 `json:"variant,omitempty"`
	Provider    string                 `json:"provider,omitempty"`
	Fingerprint string                 `json:"fingerprint,omitempty"`
	LatencyMs   int64                  `json:"latency_ms,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// NewEvent creates an event with a fresh ID and the current time
func NewEvent(eventType EventType) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

// WithDetail adds a detail to the event
func (e *Event) WithDetail(key string, value interface{}) *Event {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}
