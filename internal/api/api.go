// Package api provides the HTTP server and handlers for PostForge endpoints.
//
// It exposes the post generation API and a health check, and wires together
// the rate limiter, completion client, and generation service.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/postforge/postforge/internal/genai"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/post"
	"github.com/postforge/postforge/internal/ratelimit"
)

// Default server configuration
const (
	// DefaultAddr is the default API listen address.
	DefaultAddr = ":8000"
	// ServiceName identifies the service in health responses.
	ServiceName = "PostForge"
	// ServiceVersion is reported by the health endpoint.
	ServiceVersion = "1.0.0"
)

// Opts holds configuration options for the API server.
type Opts struct {
	Addr            string
	Provider        string
	GroqAPIKey      string
	GroqEndpoint    string
	GroqModel       string
	OpenAIAPIKey    string
	OpenAIModel     string
	Timeout         time.Duration
	Temperature     float64
	TopicLimits     models.TopicLimits
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the API listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) {
		o.Addr = addr
	}
}

// WithProvider selects the completion provider ("groq" or "openai").
func WithProvider(provider string) Option {
	return func(o *Opts) {
		o.Provider = provider
	}
}

// WithGroqAPIKey sets the Groq API key.
func WithGroqAPIKey(key string) Option {
	return func(o *Opts) {
		o.GroqAPIKey = key
	}
}

// WithGroqEndpoint overrides the Groq completion endpoint URL.
func WithGroqEndpoint(url string) Option {
	return func(o *Opts) {
		o.GroqEndpoint = url
	}
}

// WithGroqModel sets the Groq model identifier.
func WithGroqModel(model string) Option {
	return func(o *Opts) {
		o.GroqModel = model
	}
}

// WithOpenAIAPIKey sets the OpenAI API key for the openai provider.
func WithOpenAIAPIKey(key string) Option {
	return func(o *Opts) {
		o.OpenAIAPIKey = key
	}
}

// WithOpenAIModel sets the model identifier for the openai provider.
func WithOpenAIModel(model string) Option {
	return func(o *Opts) {
		o.OpenAIModel = model
	}
}

// WithTimeout sets the outbound completion request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) {
		o.Timeout = d
	}
}

// WithTemperature sets the sampling temperature for generation.
func WithTemperature(t float64) Option {
	return func(o *Opts) {
		o.Temperature = t
	}
}

// WithTopicLimits overrides the topic validation limits.
func WithTopicLimits(limits models.TopicLimits) Option {
	return func(o *Opts) {
		o.TopicLimits = limits
	}
}

// WithRateLimit sets the per-client request budget and window.
func WithRateLimit(maxRequests int, window time.Duration) Option {
	return func(o *Opts) {
		o.RateLimitMax = maxRequests
		o.RateLimitWindow = window
	}
}

// Server handles HTTP requests for post generation.
type Server struct {
	svc  *post.Service
	addr string
}

// NewServer creates an API server around the given generation service.
func NewServer(svc *post.Service, addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{svc: svc, addr: addr}
}

// Handler returns the server's HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate-post", s.generatePostHandler)
	mux.HandleFunc("/health", s.healthHandler)
	return requestIDMiddleware(mux)
}

// Run builds the completion client, rate limiter, and generation service from
// the provided options and serves the API until the listener fails.
func Run(opts ...Option) error {
	cfg := Opts{
		Addr:            DefaultAddr,
		Provider:        "groq",
		Timeout:         genai.DefaultTimeout,
		Temperature:     genai.DefaultTemperature,
		TopicLimits:     models.DefaultTopicLimits(),
		RateLimitMax:    ratelimit.DefaultMaxRequests,
		RateLimitWindow: ratelimit.DefaultWindow,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	completer, err := buildCompleter(cfg)
	if err != nil {
		return fmt.Errorf("failed to create completion client: %w", err)
	}

	limiter := ratelimit.NewLimiter(
		ratelimit.WithMaxRequests(cfg.RateLimitMax),
		ratelimit.WithWindow(cfg.RateLimitWindow),
	)
	svc := post.NewService(completer, limiter, post.WithTopicLimits(cfg.TopicLimits))
	server := NewServer(svc, cfg.Addr)

	slog.Info("API server starting",
		"addr", server.addr,
		"provider", cfg.Provider,
		"min_topic_length", cfg.TopicLimits.MinLength,
		"max_topic_length", cfg.TopicLimits.MaxLength,
		"rate_limit_requests", cfg.RateLimitMax,
		"rate_limit_window", cfg.RateLimitWindow)
	return http.ListenAndServe(server.addr, server.Handler())
}

// buildCompleter selects and constructs the configured completion provider.
func buildCompleter(cfg Opts) (genai.CompletionClient, error) {
	switch cfg.Provider {
	case "openai":
		openaiOpts := []genai.OpenAIOption{
			genai.WithOpenAIKey(cfg.OpenAIAPIKey),
			genai.WithOpenAITimeout(cfg.Timeout),
			genai.WithOpenAITemperature(cfg.Temperature),
		}
		if cfg.OpenAIModel != "" {
			openaiOpts = append(openaiOpts, genai.WithOpenAIModel(cfg.OpenAIModel))
		}
		return genai.NewOpenAIClient(openaiOpts...)
	case "", "groq":
		groqOpts := []genai.GroqOption{
			genai.WithAPIKey(cfg.GroqAPIKey),
			genai.WithTimeout(cfg.Timeout),
			genai.WithTemperature(cfg.Temperature),
		}
		if cfg.GroqEndpoint != "" {
			groqOpts = append(groqOpts, genai.WithEndpoint(cfg.GroqEndpoint))
		}
		if cfg.GroqModel != "" {
			groqOpts = append(groqOpts, genai.WithModel(cfg.GroqModel))
		}
		return genai.NewGroqClient(groqOpts...)
	default:
		return nil, fmt.Errorf("unknown completion provider: %s", cfg.Provider)
	}
}
