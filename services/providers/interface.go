package providers

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/upb/review-generator/services/budget"
)

// DefaultMaxResponseChars bounds accepted review text
const DefaultMaxResponseChars = 4000

// Provider is a uniform interface to one remote text generation service.
// Implementations do not retry and do not record cost.
type Provider interface {
	// Name returns the provider name used in configuration and results (e.g. "openai")
	Name() string

	// Model returns the model the provider calls
	Model() string

	// Generate performs one call, bounded by req.Timeout
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// EstimateCost prices reported token usage
	EstimateCost(usage Usage) budget.Money
}

// GenerateRequest is the provider-neutral prompt
type GenerateRequest struct {
	// System carries tone, language and length instructions
	System string

	// User carries the guest facts
	User string

	MaxTokens   int
	Temperature float64

	// Timeout for this single call; zero means only ctx bounds it
	Timeout time.Duration
}

// GenerateResponse is a validated provider answer
type GenerateResponse struct {
	Text         string
	Model        string
	Usage        Usage
	Latency      time.Duration
	FinishReason string
}

// Usage represents token usage statistics
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Estimated is set when the provider reported no usage and the counts were derived locally
	Estimated bool `json:"estimated,omitempty"`
}

// IsZero reports whether no tokens were counted
func (u Usage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// charsPerToken is a rough tokenizer ratio used only for usage estimates
const charsPerToken = 4

// EstimateUsage stands in for a missing usage block. The completion is billed at the
// requested MaxTokens when set, so an answer without usage is never free.
func EstimateUsage(req *GenerateRequest, text string) Usage {
	prompt := tokensFor(utf8.RuneCountInString(req.System) + utf8.RuneCountInString(req.User))
	completion := tokensFor(utf8.RuneCountInString(text))
	if req.MaxTokens > completion {
		completion = req.MaxTokens
	}
	return Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
		Estimated:        true,
	}
}

func tokensFor(runes int) int {
	n := (runes + charsPerToken - 1) / charsPerToken
	if n < 1 {
		return 1
	}
	return n
}

// Config holds common configuration for adapters
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// MaxResponseChars rejects longer answers; zero uses DefaultMaxResponseChars
	MaxResponseChars int

	// Prices used by EstimateCost; nil uses budget.DefaultPriceTable
	Prices budget.PriceTable
}

// WithTimeout derives the per-call context. The returned cancel must always be called.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// ValidateText trims a provider answer and checks it is non-empty and within maxChars runes
func ValidateText(provider, text string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxResponseChars
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", NewProviderError(provider, KindInvalidResponse, "empty response text", 0, true, nil)
	}
	if n := utf8.RuneCountInString(text); n > maxChars {
		return "", NewProviderError(provider, KindInvalidResponse, "response text too long", 0, false, nil)
	}
	return text, nil
}
