package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is the model used when none is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// chatService defines the minimal interface for chat completions, so tests
// can substitute a mock for the SDK client.
type chatService interface {
	Create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletion, error)
}

// openaiChat adapts the official SDK client to chatService.
type openaiChat struct {
	client openai.Client
}

func (s openaiChat) Create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletion, error) {
	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return openai.ChatCompletion{}, err
	}
	return *resp, nil
}

// OpenAIOpts holds configuration options for the OpenAI client.
type OpenAIOpts struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// OpenAIOption defines a configuration option for the OpenAI client.
type OpenAIOption func(*OpenAIOpts)

// WithOpenAIKey sets the OpenAI API key.
func WithOpenAIKey(key string) OpenAIOption {
	return func(o *OpenAIOpts) {
		o.APIKey = key
	}
}

// WithOpenAIModel sets the model identifier.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *OpenAIOpts) {
		o.Model = model
	}
}

// WithOpenAIBaseURL overrides the API base URL. Used by tests to point the
// SDK at a local server.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(o *OpenAIOpts) {
		o.BaseURL = url
	}
}

// WithOpenAITimeout sets the overall request timeout.
func WithOpenAITimeout(d time.Duration) OpenAIOption {
	return func(o *OpenAIOpts) {
		o.Timeout = d
	}
}

// WithOpenAIMaxTokens sets the completion token cap.
func WithOpenAIMaxTokens(n int) OpenAIOption {
	return func(o *OpenAIOpts) {
		o.MaxTokens = n
	}
}

// WithOpenAITemperature sets the sampling temperature.
func WithOpenAITemperature(t float64) OpenAIOption {
	return func(o *OpenAIOpts) {
		o.Temperature = t
	}
}

// OpenAIClient generates completions through the official OpenAI SDK. It is
// the config-selectable alternative to GroqClient and reports failures
// through the same error taxonomy.
type OpenAIClient struct {
	chat        chatService
	model       string
	maxTokens   int
	temperature float64
}

// NewOpenAIClient creates an OpenAI completion client, applying any provided
// options. An API key is required.
func NewOpenAIClient(opts ...OpenAIOption) (*OpenAIClient, error) {
	cfg := OpenAIOpts{
		Model:       DefaultOpenAIModel,
		Timeout:     DefaultTimeout,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not set")
	}
	// The SDK retries by default; completion calls are single-attempt, so
	// retries are disabled and the configured deadline bounds the whole call.
	requestOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(cfg.BaseURL))
	}
	cli := openai.NewClient(requestOpts...)
	slog.Debug("OpenAIClient configured", "model", cfg.Model, "timeout", cfg.Timeout)
	return &OpenAIClient{
		chat:        openaiChat{client: cli},
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends the prompt as a single user message and returns the trimmed
// generated text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(c.maxTokens)),
		Temperature: openai.Float(c.temperature),
	}

	resp, err := c.chat.Create(ctx, params)
	if err != nil {
		return "", classifySDKError(err)
	}
	if len(resp.Choices) == 0 {
		slog.Error("OpenAIClient.Complete: no choices in response")
		return "", fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}
	generated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if generated == "" {
		slog.Warn("OpenAIClient.Complete: upstream returned empty content")
		return "", ErrEmptyContent
	}
	return generated, nil
}

// classifySDKError maps SDK failures onto the package error taxonomy. API
// errors carry the upstream status; everything else is a transport failure.
func classifySDKError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		slog.Error("OpenAIClient.Complete: upstream error", "status", apierr.StatusCode, "error", apierr.Error())
		return &UpstreamError{StatusCode: apierr.StatusCode, Body: apierr.Error()}
	}
	return classifyTransportError(err)
}
