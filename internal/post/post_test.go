package post

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/postforge/postforge/internal/genai"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/ratelimit"
)

// mockCompleter implements genai.CompletionClient and records calls.
type mockCompleter struct {
	content    string
	err        error
	calls      int
	lastPrompt string
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

func newTestService(completer genai.CompletionClient, opts ...Option) *Service {
	limiter := ratelimit.NewLimiter()
	return NewService(completer, limiter, opts...)
}

func TestGenerate_Success(t *testing.T) {
	completer := &mockCompleter{content: "Rise and grind! Morning workouts set the tone."}
	svc := newTestService(completer)

	result, err := svc.Generate(context.Background(), "The benefits of morning exercise", models.PlatformTwitter, "1.2.3.4")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.GeneratedText != completer.content {
		t.Errorf("expected generated text %q, got %q", completer.content, result.GeneratedText)
	}
	if result.Platform != models.PlatformTwitter {
		t.Errorf("expected platform twitter, got %q", result.Platform)
	}
	if result.ErrorMessage != "" {
		t.Errorf("expected empty error message, got %q", result.ErrorMessage)
	}
	if !strings.Contains(completer.lastPrompt, "Topic: The benefits of morning exercise") {
		t.Error("expected topic to be interpolated into the prompt")
	}
}

func TestGenerate_ValidationRejectsWithoutUpstreamCall(t *testing.T) {
	cases := []struct {
		name  string
		topic string
		want  error
	}{
		{"empty", "", models.ErrTopicEmpty},
		{"whitespace", "   ", models.ErrTopicEmpty},
		{"too short", "ab", models.ErrTopicTooShort},
		{"too long", strings.Repeat("x", models.DefaultMaxTopicLength+1), models.ErrTopicTooLong},
		{"forbidden", "the best SPAM recipes", models.ErrTopicForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			completer := &mockCompleter{content: "should never be returned"}
			svc := newTestService(completer)

			_, err := svc.Generate(context.Background(), tc.topic, models.PlatformTwitter, "1.2.3.4")
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if completer.calls != 0 {
				t.Errorf("expected zero upstream calls, got %d", completer.calls)
			}
		})
	}
}

func TestGenerate_SanitizesTopicBeforePromptBuild(t *testing.T) {
	completer := &mockCompleter{content: "ok"}
	svc := newTestService(completer)

	_, err := svc.Generate(context.Background(), "ideas about <b>bold</b> moves", models.PlatformTwitter, "1.2.3.4")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(completer.lastPrompt, "&lt;b&gt;bold&lt;/b&gt;") {
		t.Error("expected angle brackets to be escaped in the prompt")
	}
	if strings.Contains(completer.lastPrompt, "<b>") {
		t.Error("expected no literal markup in the prompt")
	}
}

func TestGenerate_RateLimited(t *testing.T) {
	completer := &mockCompleter{content: "ok"}
	limiter := ratelimit.NewLimiter(ratelimit.WithMaxRequests(2))
	svc := NewService(completer, limiter)

	for i := 0; i < 2; i++ {
		if _, err := svc.Generate(context.Background(), "a perfectly fine topic", models.PlatformTwitter, "1.2.3.4"); err != nil {
			t.Fatalf("expected request %d to pass, got %v", i+1, err)
		}
	}

	_, err := svc.Generate(context.Background(), "a perfectly fine topic", models.PlatformTwitter, "1.2.3.4")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if completer.calls != 2 {
		t.Errorf("expected rate-limited request to skip the upstream call, got %d calls", completer.calls)
	}

	// A different client identity still has capacity.
	if _, err := svc.Generate(context.Background(), "a perfectly fine topic", models.PlatformTwitter, "5.6.7.8"); err != nil {
		t.Errorf("expected other client to be admitted, got %v", err)
	}
}

func TestGenerate_UpstreamFailureReturnsResultNotError(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"upstream status", &genai.UpstreamError{StatusCode: 500, Body: "internal"}},
		{"timeout", genai.ErrTimeout},
		{"network", &genai.NetworkError{Err: errors.New("connection reset")}},
		{"malformed", genai.ErrMalformedResponse},
		{"empty content", genai.ErrEmptyContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(&mockCompleter{err: tc.err})

			result, err := svc.Generate(context.Background(), "a perfectly fine topic", models.PlatformLinkedIn, "1.2.3.4")
			if err != nil {
				t.Fatalf("expected structured failure instead of error, got %v", err)
			}
			if result.Success {
				t.Fatal("expected success=false")
			}
			if result.ErrorMessage == "" {
				t.Error("expected a descriptive error message")
			}
			if result.GeneratedText != "" {
				t.Errorf("expected no generated text, got %q", result.GeneratedText)
			}
			if result.Platform != models.PlatformLinkedIn {
				t.Errorf("expected platform to be echoed, got %q", result.Platform)
			}
		})
	}
}

func TestGenerate_UpstreamBodyDoesNotLeakToCaller(t *testing.T) {
	secret := `{"error": "internal stack trace with secrets"}`
	svc := newTestService(&mockCompleter{err: &genai.UpstreamError{StatusCode: 502, Body: secret}})

	result, err := svc.Generate(context.Background(), "a perfectly fine topic", models.PlatformTwitter, "1.2.3.4")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Contains(result.ErrorMessage, "stack trace") {
		t.Errorf("raw upstream body leaked to caller: %q", result.ErrorMessage)
	}
}

func TestGenerate_FailureStillConsumesRateCapacity(t *testing.T) {
	completer := &mockCompleter{err: genai.ErrTimeout}
	limiter := ratelimit.NewLimiter(ratelimit.WithMaxRequests(1))
	svc := NewService(completer, limiter)

	if _, err := svc.Generate(context.Background(), "a perfectly fine topic", models.PlatformTwitter, "1.2.3.4"); err != nil {
		t.Fatalf("expected structured failure, got %v", err)
	}
	// Capacity is consumed by the attempt, not by success.
	_, err := svc.Generate(context.Background(), "a perfectly fine topic", models.PlatformTwitter, "1.2.3.4")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited after failed attempt, got %v", err)
	}
}

func TestGenerate_ProcessingTimeMeasured(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(750 * time.Millisecond)
		return now
	}
	svc := newTestService(&mockCompleter{content: "ok"}, WithClock(clock))

	result, err := svc.Generate(context.Background(), "a perfectly fine topic", models.PlatformTwitter, "1.2.3.4")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ProcessingTime != 0.75 {
		t.Errorf("expected processing time 0.75s, got %v", result.ProcessingTime)
	}
}

func TestGenerate_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	completer := &mockCompleter{err: context.Canceled}
	svc := newTestService(completer)
	cancel()

	_, err := svc.Generate(ctx, "a perfectly fine topic", models.PlatformTwitter, "1.2.3.4")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
