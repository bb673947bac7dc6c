package generation

import (
	"time"

	"github.com/upb/review-generator/models"
	"github.com/upb/review-generator/services/budget"
	"github.com/upb/review-generator/services/providers"
)

// Config holds the orchestration limits. All durations must be positive.
type Config struct {
	AttemptTimeout   time.Duration
	MaxRetries       int
	BackoffBase      time.Duration
	BackoffMax       time.Duration
	FailureThreshold uint32
	CircuitCooldown  time.Duration
	CacheTTL         time.Duration
	FallbackTTL      time.Duration
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		AttemptTimeout:   5 * time.Second,
		MaxRetries:       2,
		BackoffBase:      200 * time.Millisecond,
		BackoffMax:       2 * time.Second,
		FailureThreshold: 3,
		CircuitCooldown:  60 * time.Second,
		CacheTTL:         time.Hour,
		FallbackTTL:      5 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = d.AttemptTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = d.BackoffBase
	}
	if c.BackoffMax < c.BackoffBase {
		c.BackoffMax = c.BackoffBase
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.CircuitCooldown <= 0 {
		c.CircuitCooldown = d.CircuitCooldown
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.FallbackTTL <= 0 {
		c.FallbackTTL = d.FallbackTTL
	}
	return c
}

// Ledger gates and records provider spend
type Ledger interface {
	Check(provider string) error
	Record(provider string, amount budget.Money)
	Spent(provider string) budget.Money
}

// Throttle limits the outbound call rate per provider
type Throttle interface {
	Allow(provider string) bool
}

// Assigner maps a session to a provider order
type Assigner interface {
	Assign(sessionID string) models.VariantAssignment
}

// Composer produces the template fallback text
type Composer interface {
	Compose(req *models.ReviewRequest) string
}

// PromptBuilder turns a request into a provider request
type PromptBuilder interface {
	Build(req *models.ReviewRequest) *providers.GenerateRequest
}
