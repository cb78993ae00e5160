package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Default Groq client configuration
const (
	// DefaultGroqEndpoint is Groq's OpenAI-compatible chat completions URL.
	DefaultGroqEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	// DefaultGroqModel is a known working Groq model.
	DefaultGroqModel = "llama-3.3-70b-versatile"
	// DefaultTimeout bounds the whole completion request.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxTokens caps the generated completion length.
	DefaultMaxTokens = 300
	// DefaultTemperature is the sampling temperature for generation.
	DefaultTemperature = 0.7
)

// CompletionClient issues a single completion attempt for a prompt. Retry
// policy, if any, belongs to the caller.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// chatRequest is the outbound wire payload for the chat completions call.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the expected success envelope. Content is a pointer so a
// missing field is distinguishable from an empty generated string.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GroqOpts holds configuration options for the Groq client.
type GroqOpts struct {
	APIKey      string
	Endpoint    string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
	HTTPClient  *http.Client
}

// GroqOption defines a configuration option for the Groq client.
type GroqOption func(*GroqOpts)

// WithAPIKey sets the bearer token for the completion endpoint.
func WithAPIKey(key string) GroqOption {
	return func(o *GroqOpts) {
		o.APIKey = key
	}
}

// WithEndpoint overrides the completion endpoint URL.
func WithEndpoint(url string) GroqOption {
	return func(o *GroqOpts) {
		o.Endpoint = url
	}
}

// WithModel sets the model identifier sent upstream.
func WithModel(model string) GroqOption {
	return func(o *GroqOpts) {
		o.Model = model
	}
}

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) GroqOption {
	return func(o *GroqOpts) {
		o.Timeout = d
	}
}

// WithMaxTokens sets the completion token cap.
func WithMaxTokens(n int) GroqOption {
	return func(o *GroqOpts) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) GroqOption {
	return func(o *GroqOpts) {
		o.Temperature = t
	}
}

// WithHTTPClient overrides the underlying HTTP client. The configured timeout
// is applied to the provided client.
func WithHTTPClient(c *http.Client) GroqOption {
	return func(o *GroqOpts) {
		o.HTTPClient = c
	}
}

// GroqClient calls Groq's OpenAI-compatible chat completions endpoint
// directly over HTTP.
type GroqClient struct {
	apiKey      string
	endpoint    string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewGroqClient creates a Groq completion client, applying any provided
// options. An API key is required.
func NewGroqClient(opts ...GroqOption) (*GroqClient, error) {
	cfg := GroqOpts{
		Endpoint:    DefaultGroqEndpoint,
		Model:       DefaultGroqModel,
		Timeout:     DefaultTimeout,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq API key not set")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = cfg.Timeout
	slog.Debug("GroqClient configured", "endpoint", cfg.Endpoint, "model", cfg.Model, "timeout", cfg.Timeout)
	return &GroqClient{
		apiKey:      cfg.APIKey,
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client:      httpClient,
	}, nil
}

// Complete sends the prompt as a single user message and returns the trimmed
// generated text. Failures map onto the package error taxonomy: ErrTimeout,
// NetworkError, UpstreamError for non-200 statuses, ErrMalformedResponse for
// envelope violations, and ErrEmptyContent for whitespace-only generations.
// Cancelling ctx aborts the in-flight request.
func (c *GroqClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	slog.Debug("GroqClient.Complete: sending request", "endpoint", c.endpoint, "model", c.model, "prompt_length", len(prompt))
	resp, err := c.client.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		upstreamErr := &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
		slog.Error("GroqClient.Complete: upstream error", "status", resp.StatusCode, "body", string(respBody))
		return "", upstreamErr
	}

	var envelope chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		slog.Error("GroqClient.Complete: failed to decode response body", "error", err)
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(envelope.Choices) == 0 {
		slog.Error("GroqClient.Complete: no choices in response")
		return "", fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}
	content := envelope.Choices[0].Message.Content
	if content == nil {
		slog.Error("GroqClient.Complete: choice missing message content")
		return "", fmt.Errorf("%w: missing message content", ErrMalformedResponse)
	}
	generated := strings.TrimSpace(*content)
	if generated == "" {
		slog.Warn("GroqClient.Complete: upstream returned empty content")
		return "", ErrEmptyContent
	}

	slog.Debug("GroqClient.Complete: request successful", "content_length", len(generated))
	return generated, nil
}

// classifyTransportError maps an http.Client failure onto the package error
// taxonomy: deadline and client-timeout failures become ErrTimeout, context
// cancellation passes through, everything else is a NetworkError.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return &NetworkError{Err: err}
}
