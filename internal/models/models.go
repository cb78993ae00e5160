// Package models defines the core data structures for PostForge.
//
// It includes the platform enumeration, topic validation, and the request and
// response types shared between the orchestrator and the API layer.
package models

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Platform identifies the social media platform a post is generated for.
type Platform string

const (
	// PlatformTwitter targets X (formerly Twitter).
	PlatformTwitter Platform = "twitter"
	// PlatformLinkedIn targets LinkedIn.
	PlatformLinkedIn Platform = "linkedin"
)

// Validation constants for topic input validation
const (
	// DefaultMinTopicLength is the minimum allowed trimmed topic length.
	DefaultMinTopicLength = 3
	// DefaultMaxTopicLength is the maximum allowed trimmed topic length.
	DefaultMaxTopicLength = 1000
)

// DefaultForbiddenWords lists substrings rejected by topic validation.
// Matching is case-insensitive.
var DefaultForbiddenWords = []string{"spam", "scam", "hack", "illegal"}

// Error variables for better error handling and testability
var (
	ErrTopicEmpty     = errors.New("topic cannot be empty")
	ErrTopicTooShort  = errors.New("topic is too short")
	ErrTopicTooLong   = errors.New("topic is too long")
	ErrTopicForbidden = errors.New("topic contains inappropriate content")
)

// IsValidPlatform checks if the given platform is supported.
func IsValidPlatform(p Platform) bool {
	switch p {
	case PlatformTwitter, PlatformLinkedIn:
		return true
	default:
		return false
	}
}

// ParsePlatform converts a platform string into a Platform. Empty and
// unrecognized values resolve to PlatformTwitter; upstream callers pass
// loosely validated strings and the documented behavior is to coerce rather
// than reject them.
func ParsePlatform(s string) Platform {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if IsValidPlatform(p) {
		return p
	}
	return PlatformTwitter
}

// TopicLimits carries the configured length bounds and forbidden substrings
// for topic validation.
type TopicLimits struct {
	MinLength int
	MaxLength int
	Forbidden []string
}

// DefaultTopicLimits returns the default validation limits.
func DefaultTopicLimits() TopicLimits {
	return TopicLimits{
		MinLength: DefaultMinTopicLength,
		MaxLength: DefaultMaxTopicLength,
		Forbidden: DefaultForbiddenWords,
	}
}

// ValidateTopic checks the raw topic against the limits. Length bounds apply
// to the trimmed topic and count characters, not bytes, so multi-byte topics
// are measured the way users see them; forbidden substrings match
// case-insensitively.
func ValidateTopic(topic string, limits TopicLimits) error {
	trimmed := strings.TrimSpace(topic)
	if trimmed == "" {
		return ErrTopicEmpty
	}
	length := utf8.RuneCountInString(trimmed)
	if length < limits.MinLength {
		return ErrTopicTooShort
	}
	if length > limits.MaxLength {
		return ErrTopicTooLong
	}
	lower := strings.ToLower(trimmed)
	for _, word := range limits.Forbidden {
		if strings.Contains(lower, strings.ToLower(word)) {
			return ErrTopicForbidden
		}
	}
	return nil
}

// SanitizeTopic neutralizes markup framing before the topic is interpolated
// into a prompt: literal '<' and '>' become their HTML entities, then the
// result is trimmed. The transform is idempotent for already-escaped input
// since the entity text contains no literal angle brackets.
func SanitizeTopic(topic string) string {
	sanitized := strings.ReplaceAll(topic, "<", "&lt;")
	sanitized = strings.ReplaceAll(sanitized, ">", "&gt;")
	return strings.TrimSpace(sanitized)
}

// PostRequest is the inbound payload for post generation.
type PostRequest struct {
	Topic    string `json:"topic"`
	Platform string `json:"platform,omitempty"`
}

// GenerationResult is the orchestrator's outcome for a single request.
// Exactly one of GeneratedText and ErrorMessage is populated, depending on
// Success.
type GenerationResult struct {
	Success        bool
	GeneratedText  string
	ErrorMessage   string
	ProcessingTime float64 // seconds
	Platform       Platform
}

// PostResponse is the wire shape returned to API callers.
type PostResponse struct {
	Success        bool     `json:"success"`
	GeneratedPost  *string  `json:"generated_post"`
	ErrorMessage   *string  `json:"error_message"`
	ProcessingTime float64  `json:"processing_time"`
	Platform       Platform `json:"platform"`
}

// ToResponse converts a GenerationResult into its wire shape.
func (r GenerationResult) ToResponse() PostResponse {
	resp := PostResponse{
		Success:        r.Success,
		ProcessingTime: r.ProcessingTime,
		Platform:       r.Platform,
	}
	if r.Success {
		text := r.GeneratedText
		resp.GeneratedPost = &text
	} else {
		msg := r.ErrorMessage
		resp.ErrorMessage = &msg
	}
	return resp
}

// ErrorResponse is the wire shape for rejected requests (validation failures
// and rate limiting).
type ErrorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}
