package util

import (
	"testing"
	"time"
)

func TestParseIntEnv(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := ParseIntEnv("TEST_INT", 7); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}

	t.Setenv("TEST_INT", "not a number")
	if got := ParseIntEnv("TEST_INT", 7); got != 7 {
		t.Errorf("expected default 7 for invalid value, got %d", got)
	}

	if got := ParseIntEnv("TEST_INT_UNSET", 7); got != 7 {
		t.Errorf("expected default 7 for unset variable, got %d", got)
	}
}

func TestParseFloatEnv(t *testing.T) {
	t.Setenv("TEST_FLOAT", "0.7")
	if got := ParseFloatEnv("TEST_FLOAT", 1.0); got != 0.7 {
		t.Errorf("expected 0.7, got %v", got)
	}

	t.Setenv("TEST_FLOAT", "oops")
	if got := ParseFloatEnv("TEST_FLOAT", 1.0); got != 1.0 {
		t.Errorf("expected default 1.0 for invalid value, got %v", got)
	}
}

func TestParseSecondsEnv(t *testing.T) {
	t.Setenv("TEST_SECONDS", "30")
	if got := ParseSecondsEnv("TEST_SECONDS", time.Second); got != 30*time.Second {
		t.Errorf("expected 30s, got %v", got)
	}

	t.Setenv("TEST_SECONDS", "1.5")
	if got := ParseSecondsEnv("TEST_SECONDS", time.Second); got != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", got)
	}

	t.Setenv("TEST_SECONDS", "bogus")
	if got := ParseSecondsEnv("TEST_SECONDS", 30*time.Second); got != 30*time.Second {
		t.Errorf("expected default for invalid value, got %v", got)
	}
}
