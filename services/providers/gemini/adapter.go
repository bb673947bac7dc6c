package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/upb/review-generator/services/budget"
	"github.com/upb/review-generator/services/providers"
)

const (
	defaultModel = "gemini-2.0-flash"
	providerName = "gemini"
)

// Adapter implements providers.Provider on top of the genai SDK
type Adapter struct {
	config providers.Config
	client *genai.Client
}

// NewAdapter creates a Gemini API client. BaseURL overrides the SDK endpoint.
func NewAdapter(ctx context.Context, config providers.Config) (*Adapter, error) {
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.MaxResponseChars <= 0 {
		config.MaxResponseChars = providers.DefaultMaxResponseChars
	}
	if config.Prices == nil {
		config.Prices = budget.DefaultPriceTable()
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	return &Adapter{config: config, client: client}, nil
}

// Name returns the provider name
func (a *Adapter) Name() string {
	return providerName
}

// Model returns the configured model
func (a *Adapter) Model() string {
	return a.config.Model
}

// EstimateCost prices token usage with the adapter's price table
func (a *Adapter) EstimateCost(usage providers.Usage) budget.Money {
	return a.config.Prices.Cost(a.config.Model, usage.PromptTokens, usage.CompletionTokens)
}

// Generate performs one GenerateContent call
func (a *Adapter) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	startTime := time.Now()

	ctx, cancel := providers.WithTimeout(ctx, req.Timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}

	result, err := a.client.Models.GenerateContent(ctx, a.config.Model, genai.Text(req.User), cfg)
	if err != nil {
		return nil, a.classifyError(err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return nil, providers.NewProviderError(a.Name(), providers.KindInvalidResponse, "response has no candidates", 0, true, nil)
	}

	text, err := providers.ValidateText(a.Name(), result.Text(), a.config.MaxResponseChars)
	if err != nil {
		return nil, err
	}

	resp := &providers.GenerateResponse{
		Text:         text,
		Model:        a.config.Model,
		Latency:      time.Since(startTime),
		FinishReason: string(result.Candidates[0].FinishReason),
	}
	if result.ModelVersion != "" {
		resp.Model = result.ModelVersion
	}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = providers.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	if resp.Usage.IsZero() {
		resp.Usage = providers.EstimateUsage(req, text)
	}
	return resp, nil
}

// classifyError maps SDK errors onto provider error kinds. API errors carry HTTP status codes.
func (a *Adapter) classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return a.fromAPIError(apiErr.Code, apiErr.Message, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return a.fromAPIError(apiErrPtr.Code, apiErrPtr.Message, err)
	}
	return providers.ClassifyTransport(a.Name(), err)
}

func (a *Adapter) fromAPIError(code int, message string, cause error) error {
	if code == 0 {
		code = http.StatusInternalServerError
	}
	provErr := providers.ClassifyStatus(a.Name(), code, message)
	provErr.Cause = cause
	return provErr
}
