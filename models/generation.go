package models

import "time"

// Source values for GenerationResult. Provider results carry the provider name instead.
const (
	SourceCache    = "cache"
	SourceTemplate = "template"
)

// GenerationResult is what the caller receives for every valid request
type GenerationResult struct {
	Text        string `json:"text"`
	Source      string `json:"source"`
	LatencyMs   int64  `json:"latency_ms"`
	Variant     string `json:"variant,omitempty"`
	Fingerprint string `json:"fingerprint"`
	SessionID   string `json:"session_id,omitempty"`
}

// IsFallback reports whether the text came from the template composer
func (r *GenerationResult) IsFallback() bool {
	return r.Source == SourceTemplate
}

// CircuitState mirrors the breaker state of a provider
type CircuitState string

const (
	CircuitClosed   CircuitState = "closed"
	CircuitHalfOpen CircuitState = "half-open"
	CircuitOpen     CircuitState = "open"
)

// ProviderState is the runtime record kept for each provider
type ProviderState struct {
	Name                string       `json:"name"`
	Enabled             bool         `json:"enabled"`
	ConsecutiveFailures uint32       `json:"consecutive_failures"`
	CircuitOpenUntil    time.Time    `json:"circuit_open_until,omitempty"`
	State               CircuitState `json:"state"`
}

// IsOpenAt reports whether the provider is inside its cooldown window at t
func (s ProviderState) IsOpenAt(t time.Time) bool {
	return !s.CircuitOpenUntil.IsZero() && t.Before(s.CircuitOpenUntil)
}

// VariantAssignment binds a session to an experiment variant
type VariantAssignment struct {
	SessionID     string   `json:"session_id"`
	Variant       string   `json:"variant"`
	ProviderOrder []string `json:"provider_order"`
}
