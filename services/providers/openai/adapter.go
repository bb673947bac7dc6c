package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/upb/review-generator/services/budget"
	"github.com/upb/review-generator/services/providers"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	providerName   = "openai"

	// maxBodyBytes caps how much of a response is read
	maxBodyBytes = 1 << 20
)

// Adapter implements providers.Provider for the OpenAI chat completions API
type Adapter struct {
	config     providers.Config
	httpClient *http.Client
}

// NewAdapter creates a new OpenAI adapter. Timeouts come from each request, not the client.
func NewAdapter(config providers.Config) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.MaxResponseChars <= 0 {
		config.MaxResponseChars = providers.DefaultMaxResponseChars
	}
	if config.Prices == nil {
		config.Prices = budget.DefaultPriceTable()
	}

	return &Adapter{
		config:     config,
		httpClient: &http.Client{},
	}
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

// Generate performs one chat completion request
func (a *Adapter) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	startTime := time.Now()

	ctx, cancel := providers.WithTimeout(ctx, req.Timeout)
	defer cancel()

	reqBody, err := json.Marshal(a.buildChatRequest(req))
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), providers.KindInvalidResponse, "failed to marshal request", 0, false, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, providers.NewProviderError(a.Name(), providers.KindTransport, "failed to create request", 0, false, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.ClassifyTransport(a.Name(), err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, providers.ClassifyTransport(a.Name(), err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, a.handleErrorResponse(httpResp.StatusCode, respBody)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, providers.NewProviderError(a.Name(), providers.KindInvalidResponse, "failed to unmarshal response", httpResp.StatusCode, true, err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, providers.NewProviderError(a.Name(), providers.KindInvalidResponse, "response has no choices", httpResp.StatusCode, true, nil)
	}

	text, err := providers.ValidateText(a.Name(), chatResp.Choices[0].Message.Content, a.config.MaxResponseChars)
	if err != nil {
		return nil, err
	}

	model := chatResp.Model
	if model == "" {
		model = a.config.Model
	}

	usage := providers.Usage{
		PromptTokens:     chatResp.Usage.PromptTokens,
		CompletionTokens: chatResp.Usage.CompletionTokens,
		TotalTokens:      chatResp.Usage.TotalTokens,
	}
	// Some OpenAI-compatible servers omit usage
	if usage.IsZero() {
		usage = providers.EstimateUsage(req, text)
	}

	return &providers.GenerateResponse{
		Text:         text,
		Model:        model,
		Usage:        usage,
		Latency:      time.Since(startTime),
		FinishReason: chatResp.Choices[0].FinishReason,
	}, nil
}

// buildChatRequest converts the neutral prompt to OpenAI format
func (a *Adapter) buildChatRequest(req *providers.GenerateRequest) *ChatRequest {
	chatReq := &ChatRequest{
		Model: a.config.Model,
	}
	if req.System != "" {
		chatReq.Messages = append(chatReq.Messages, Message{Role: "system", Content: req.System})
	}
	chatReq.Messages = append(chatReq.Messages, Message{Role: "user", Content: req.User})

	if req.MaxTokens > 0 {
		chatReq.MaxTokens = &req.MaxTokens
	}
	if req.Temperature > 0 {
		chatReq.Temperature = &req.Temperature
	}
	return chatReq
}

// handleErrorResponse handles OpenAI error responses
func (a *Adapter) handleErrorResponse(statusCode int, body []byte) error {
	message := strings.TrimSpace(string(body))

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
		if errResp.Error.Type != "" {
			message = fmt.Sprintf("%s: %s", errResp.Error.Type, message)
		}
	}
	if len(message) > 200 {
		message = message[:200]
	}

	return providers.ClassifyStatus(a.Name(), statusCode, message)
}

// OpenAI-specific request/response types

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	ID      string   `json:"id"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}
