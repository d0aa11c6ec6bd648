package httpapi

import (
	"testing"
	"time"
)

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("10.0.0.1") {
		t.Fatalf("expected first request allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("expected second request limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatalf("expected other client allowed")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("10.0.0.1") {
		t.Fatalf("expected token refilled after window")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	defer rl.Stop()
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	now = now.Add(2 * clientIdleThreshold)
	rl.Allow("10.0.0.2")
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["10.0.0.1"]; ok {
		t.Fatalf("expected idle client removed")
	}
	if _, ok := rl.clients["10.0.0.2"]; !ok {
		t.Fatalf("expected active client kept")
	}
}
