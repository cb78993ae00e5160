package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fakeClock steps time manually for deterministic window tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(maxRequests int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewLimiter(
		WithMaxRequests(maxRequests),
		WithWindow(window),
		WithClock(clock.Now),
	)
	return limiter, clock
}

func TestAllow_FirstAttemptAlwaysAdmitted(t *testing.T) {
	limiter, _ := newTestLimiter(10, time.Minute)
	if !limiter.Allow("client-a") {
		t.Error("expected first attempt for unknown client to be admitted")
	}
}

func TestAllow_EleventhAttemptRejected(t *testing.T) {
	limiter, _ := newTestLimiter(10, time.Minute)
	for i := 0; i < 10; i++ {
		if !limiter.Allow("client-a") {
			t.Fatalf("expected attempt %d to be admitted", i+1)
		}
	}
	if limiter.Allow("client-a") {
		t.Error("expected 11th attempt within the window to be rejected")
	}
}

func TestAllow_CapacityFreesAfterWindow(t *testing.T) {
	limiter, clock := newTestLimiter(2, time.Minute)

	if !limiter.Allow("client-a") || !limiter.Allow("client-a") {
		t.Fatal("expected first two attempts to be admitted")
	}
	if limiter.Allow("client-a") {
		t.Fatal("expected third attempt to be rejected")
	}

	// Once the earliest timestamp ages past the window, one slot frees up.
	clock.Advance(61 * time.Second)
	if !limiter.Allow("client-a") {
		t.Error("expected attempt after window expiry to be admitted")
	}
}

func TestAllow_RejectionDoesNotConsumeCapacity(t *testing.T) {
	limiter, clock := newTestLimiter(1, time.Minute)

	if !limiter.Allow("client-a") {
		t.Fatal("expected first attempt to be admitted")
	}
	// Hammer the limiter while at capacity; none of these record attempts.
	for i := 0; i < 5; i++ {
		clock.Advance(10 * time.Second)
		if limiter.Allow("client-a") {
			t.Fatalf("expected attempt %d at capacity to be rejected", i+2)
		}
	}
	// 61s after the single admitted attempt the client has capacity again,
	// which would not hold if rejected attempts had been recorded.
	clock.Advance(11 * time.Second)
	if !limiter.Allow("client-a") {
		t.Error("expected admission once the recorded attempt aged out")
	}
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)

	if !limiter.Allow("client-a") {
		t.Fatal("expected client-a to be admitted")
	}
	if limiter.Allow("client-a") {
		t.Fatal("expected client-a to be at capacity")
	}
	if !limiter.Allow("client-b") {
		t.Error("expected client-b to be unaffected by client-a's history")
	}
}

func TestAllow_ConcurrentAdmissionsRespectCeiling(t *testing.T) {
	limiter, _ := newTestLimiter(10, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("client-a") {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 10 {
		t.Errorf("expected exactly 10 concurrent admissions, got %d", admitted)
	}
}

func TestNewLimiter_Defaults(t *testing.T) {
	limiter := NewLimiter()
	if limiter.MaxRequests() != DefaultMaxRequests {
		t.Errorf("expected default max requests %d, got %d", DefaultMaxRequests, limiter.MaxRequests())
	}
	if limiter.Window() != DefaultWindow {
		t.Errorf("expected default window %v, got %v", DefaultWindow, limiter.Window())
	}
}
