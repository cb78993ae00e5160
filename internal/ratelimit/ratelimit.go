// Package ratelimit provides a per-client sliding-window rate limiter for
// PostForge.
//
// The window trails the current instant rather than aligning to wall-clock
// buckets, so a burst cannot slip through a bucket boundary. State lives in
// process memory for the process lifetime; stale timestamps are pruned on
// every check but client keys themselves are never evicted.
package ratelimit

import (
	"sync"
	"time"
)

// Default limiter configuration
const (
	// DefaultMaxRequests is the number of admitted attempts per window.
	DefaultMaxRequests = 10
	// DefaultWindow is the sliding window duration.
	DefaultWindow = 60 * time.Second
)

// Opts holds configuration options for the limiter.
type Opts struct {
	MaxRequests int
	Window      time.Duration
	Clock       func() time.Time
}

// Option defines a configuration option for the limiter.
type Option func(*Opts)

// WithMaxRequests sets the number of admitted attempts per window.
func WithMaxRequests(n int) Option {
	return func(o *Opts) {
		o.MaxRequests = n
	}
}

// WithWindow sets the sliding window duration.
func WithWindow(d time.Duration) Option {
	return func(o *Opts) {
		o.Window = d
	}
}

// WithClock overrides the time source. Used by tests to step through window
// boundaries deterministically.
func WithClock(clock func() time.Time) Option {
	return func(o *Opts) {
		o.Clock = clock
	}
}

// Limiter admits or rejects request attempts per client identity.
type Limiter struct {
	mu          sync.Mutex
	attempts    map[string][]time.Time
	maxRequests int
	window      time.Duration
	clock       func() time.Time
}

// NewLimiter creates a limiter, applying any provided options.
func NewLimiter(opts ...Option) *Limiter {
	cfg := Opts{
		MaxRequests: DefaultMaxRequests,
		Window:      DefaultWindow,
		Clock:       time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Limiter{
		attempts:    make(map[string][]time.Time),
		maxRequests: cfg.MaxRequests,
		window:      cfg.Window,
		clock:       cfg.Clock,
	}
}

// Allow reports whether clientID may proceed with another attempt. It prunes
// timestamps older than the window, rejects without recording when the client
// is at capacity, and otherwise records the attempt. The prune, compare, and
// append run under a single lock so two concurrent requests cannot both be
// admitted past the ceiling. A clientID with no history is always admitted.
// Capacity is consumed by admission, not by downstream success.
func (l *Limiter) Allow(clientID string) bool {
	now := l.clock()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.attempts[clientID][:0]
	for _, ts := range l.attempts[clientID] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.maxRequests {
		l.attempts[clientID] = recent
		return false
	}

	l.attempts[clientID] = append(recent, now)
	return true
}

// MaxRequests returns the configured attempts-per-window ceiling.
func (l *Limiter) MaxRequests() int {
	return l.maxRequests
}

// Window returns the configured sliding window duration.
func (l *Limiter) Window() time.Duration {
	return l.window
}
