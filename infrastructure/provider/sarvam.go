package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// SarvamProvider generates chat completions using the Sarvam AI API,
// which serves the multilingual models the annotation prompts target.
type SarvamProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// SarvamOption is a functional option for SarvamProvider.
type SarvamOption func(*SarvamProvider)

// WithSarvamModel sets the model name.
func WithSarvamModel(model string) SarvamOption {
	return func(p *SarvamProvider) { p.model = model }
}

// WithSarvamBaseURL sets the base URL (for testing or proxies).
func WithSarvamBaseURL(url string) SarvamOption {
	return func(p *SarvamProvider) { p.baseURL = url }
}

// WithSarvamTimeout sets the HTTP timeout.
func WithSarvamTimeout(d time.Duration) SarvamOption {
	return func(p *SarvamProvider) { p.httpClient.Timeout = d }
}

// NewSarvamProvider creates a new Sarvam AI provider.
func NewSarvamProvider(apiKey string, opts ...SarvamOption) *SarvamProvider {
	p := &SarvamProvider{
		apiKey:  apiKey,
		baseURL: "https://api.sarvam.ai",
		model:   "sarvam-m",
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SarvamConfig holds configuration for SarvamProvider.
type SarvamConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	CacheDir string
}

// NewSarvamProviderFromConfig creates a provider from configuration.
func NewSarvamProviderFromConfig(cfg SarvamConfig) *SarvamProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.sarvam.ai"
	}

	model := cfg.Model
	if model == "" {
		model = "sarvam-m"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.CacheDir != "" {
		httpClient.Transport = NewCachingTransport(cfg.CacheDir, nil)
	}

	return &SarvamProvider{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}
}

// Close is a no-op for the Sarvam provider.
func (p *SarvamProvider) Close() error {
	return nil
}

// sarvamRequest represents the chat completion request body.
type sarvamRequest struct {
	Model       string          `json:"model"`
	Messages    []sarvamMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

// sarvamMessage represents a message in the request or response.
type sarvamMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// sarvamResponse represents the chat completion response body.
type sarvamResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []sarvamChoice `json:"choices"`
	Usage   sarvamUsage    `json:"usage"`
}

type sarvamChoice struct {
	Message      sarvamMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type sarvamUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// sarvamError represents an API error response.
type sarvamError struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// ChatCompletion generates a chat completion using Sarvam AI.
func (p *SarvamProvider) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	messages := req.Messages()
	if len(messages) == 0 {
		return ChatCompletionResponse{}, NewProviderError("chat_completion", 0, "no messages provided", nil)
	}

	apiMessages := make([]sarvamMessage, len(messages))
	for i, m := range messages {
		apiMessages[i] = sarvamMessage{Role: m.Role(), Content: m.Content()}
	}

	apiReq := sarvamRequest{
		Model:       p.model,
		Messages:    apiMessages,
		MaxTokens:   req.MaxTokens(),
		Temperature: req.Temperature(),
	}

	resp, err := p.doRequest(ctx, apiReq)
	if err != nil {
		return ChatCompletionResponse{}, err
	}

	if len(resp.Choices) == 0 {
		return ChatCompletionResponse{}, NewProviderError(
			"chat_completion", 0, ErrNoChoices.Error(), ErrNoChoices,
		)
	}

	usage := NewUsage(
		resp.Usage.PromptTokens,
		resp.Usage.CompletionTokens,
		resp.Usage.TotalTokens,
	)

	return NewChatCompletionResponse(
		resp.Choices[0].Message.Content,
		resp.Choices[0].FinishReason,
		usage,
	), nil
}

// doRequest performs the HTTP request to the Sarvam API.
func (p *SarvamProvider) doRequest(ctx context.Context, req sarvamRequest) (sarvamResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return sarvamResponse{}, NewProviderError("chat_completion", 0, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return sarvamResponse{}, NewProviderError("chat_completion", 0, "failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return sarvamResponse{}, NewProviderError("chat_completion", 0, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return sarvamResponse{}, NewProviderError("chat_completion", resp.StatusCode, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr sarvamError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return sarvamResponse{}, NewProviderError("chat_completion", resp.StatusCode, apiErr.Error.Message, nil)
		}
		return sarvamResponse{}, NewProviderError("chat_completion", resp.StatusCode, string(respBody), nil)
	}

	var apiResp sarvamResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return sarvamResponse{}, NewProviderError("chat_completion", 0, "failed to unmarshal response", err)
	}

	return apiResp, nil
}

// Ensure SarvamProvider implements the interface.
var _ TextGenerator = (*SarvamProvider)(nil)
