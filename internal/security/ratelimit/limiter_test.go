package ratelimit

import (
	"testing"
	"time"
)

func TestAllowEnforcesBudget(t *testing.T) {
	l := NewLimiter(3, time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("admin@islaguezul.com") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("admin@islaguezul.com") {
		t.Fatalf("fourth request should be throttled")
	}
	if !l.Allow("other@islaguezul.com") {
		t.Fatalf("budgets must be per caller")
	}
}

func TestAllowEmptyCallerNeverThrottled(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		if !l.Allow("") {
			t.Fatalf("empty caller must never be throttled")
		}
	}
}

func TestAllowWindowSlides(t *testing.T) {
	l := NewLimiter(1, 50*time.Millisecond)
	defer l.Stop()

	if !l.Allow("admin@islaguezul.com") {
		t.Fatalf("first request should be allowed")
	}
	if l.Allow("admin@islaguezul.com") {
		t.Fatalf("second request inside the window should be throttled")
	}
	time.Sleep(60 * time.Millisecond)
	if !l.Allow("admin@islaguezul.com") {
		t.Fatalf("request after the window should be allowed")
	}
}

func TestAllowStrictHasSeparateBudget(t *testing.T) {
	l := NewLimiter(10, time.Minute)
	defer l.Stop()

	if !l.AllowStrict("203.0.113.9", 1, time.Minute) {
		t.Fatalf("first login attempt should be allowed")
	}
	if l.AllowStrict("203.0.113.9", 1, time.Minute) {
		t.Fatalf("second login attempt should be throttled")
	}
	if !l.Allow("203.0.113.9") {
		t.Fatalf("strict throttling must not consume the default budget")
	}
}
