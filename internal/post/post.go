// Package post orchestrates social media post generation.
//
// The service runs each request through a fixed pipeline: validate the topic,
// gate on the per-client rate limiter, sanitize, build the platform prompt,
// and call the completion client. Validation and rate-limit rejections are
// returned as errors before any upstream call; completion failures are folded
// into the result so callers receive a structured failure instead of a fault.
package post

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/postforge/postforge/internal/genai"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/prompt"
	"github.com/postforge/postforge/internal/ratelimit"
)

// ErrRateLimited reports that the client exceeded its request budget. It is
// surfaced distinctly from generation failures so the transport layer can map
// it to its own status.
var ErrRateLimited = errors.New("rate limit exceeded")

// Opts holds configuration options for the service.
type Opts struct {
	Limits models.TopicLimits
	Clock  func() time.Time
}

// Option defines a configuration option for the service.
type Option func(*Opts)

// WithTopicLimits overrides the topic validation limits.
func WithTopicLimits(limits models.TopicLimits) Option {
	return func(o *Opts) {
		o.Limits = limits
	}
}

// WithClock overrides the time source used for processing-time measurement.
func WithClock(clock func() time.Time) Option {
	return func(o *Opts) {
		o.Clock = clock
	}
}

// Service coordinates validation, rate limiting, prompt construction, and
// completion for post generation requests.
type Service struct {
	completer genai.CompletionClient
	limiter   *ratelimit.Limiter
	limits    models.TopicLimits
	clock     func() time.Time
}

// NewService creates a generation service with the given completion client
// and rate limiter, applying any provided options.
func NewService(completer genai.CompletionClient, limiter *ratelimit.Limiter, opts ...Option) *Service {
	cfg := Opts{
		Limits: models.DefaultTopicLimits(),
		Clock:  time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Service{
		completer: completer,
		limiter:   limiter,
		limits:    cfg.Limits,
		clock:     cfg.Clock,
	}
}

// Limiter exposes the service's rate limiter for transport-level messaging.
func (s *Service) Limiter() *ratelimit.Limiter {
	return s.limiter
}

// Generate runs the full pipeline for one request. It returns a validation
// error or ErrRateLimited before any upstream call is made; once the
// completion call starts, failures are reported inside the result with
// Success=false. ProcessingTime covers prompt construction through completion.
// Context cancellation aborts the in-flight upstream call and is returned as
// an error with no result.
func (s *Service) Generate(ctx context.Context, rawTopic string, platform models.Platform, clientID string) (models.GenerationResult, error) {
	if err := models.ValidateTopic(rawTopic, s.limits); err != nil {
		slog.Warn("Service.Generate: validation failed", "error", err, "client_id", clientID)
		return models.GenerationResult{}, err
	}

	if !s.limiter.Allow(clientID) {
		slog.Warn("Service.Generate: rate limit exceeded", "client_id", clientID)
		return models.GenerationResult{}, ErrRateLimited
	}

	sanitized := models.SanitizeTopic(rawTopic)

	start := s.clock()
	built := prompt.Build(platform, sanitized)

	generated, err := s.completer.Complete(ctx, built)
	elapsed := s.clock().Sub(start).Seconds()

	if err != nil {
		if ctx.Err() != nil {
			slog.Info("Service.Generate: request cancelled", "client_id", clientID)
			return models.GenerationResult{}, ctx.Err()
		}
		slog.Error("Service.Generate: completion failed", "error", err, "platform", platform, "processing_time", elapsed)
		return models.GenerationResult{
			Success:        false,
			ErrorMessage:   failureMessage(err),
			ProcessingTime: elapsed,
			Platform:       platform,
		}, nil
	}

	slog.Info("Service.Generate: post generated", "platform", platform, "processing_time", elapsed, "content_length", len(generated))
	return models.GenerationResult{
		Success:        true,
		GeneratedText:  generated,
		ProcessingTime: elapsed,
		Platform:       platform,
	}, nil
}

// failureMessage reduces a completion error to a human-readable summary.
// Upstream response bodies stay in the logs; callers get a description of the
// failure class only.
func failureMessage(err error) string {
	var upstreamErr *genai.UpstreamError
	var networkErr *genai.NetworkError
	switch {
	case errors.Is(err, genai.ErrTimeout):
		return "Request timed out. Please try again."
	case errors.As(err, &networkErr):
		return "Network error while contacting the generation service."
	case errors.As(err, &upstreamErr):
		return "Generation service returned an error. Please try again."
	case errors.Is(err, genai.ErrMalformedResponse):
		return "Generation service returned an unexpected response."
	case errors.Is(err, genai.ErrEmptyContent):
		return "Generation service returned no content. Please try again."
	default:
		return "Failed to generate post. Please try again."
	}
}
