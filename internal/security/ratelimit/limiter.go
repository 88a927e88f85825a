package ratelimit

import (
	"sync"
	"time"
)

// Limiter throttles admin callers with per-key sliding windows. Keys
// are admin emails for authenticated routes and remote addresses for
// the login endpoint.
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	maxReqs int
	window  time.Duration
	cleanup *time.Ticker
}

type bucket struct {
	requests []time.Time
	lastSeen time.Time
}

func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	limiter := &Limiter{
		buckets: make(map[string]*bucket),
		maxReqs: maxRequests,
		window:  window,
		cleanup: time.NewTicker(5 * time.Minute),
	}
	go limiter.reapStaleBuckets()
	return limiter
}

// Allow applies the limiter's default budget to the caller. An empty
// key is never throttled.
func (l *Limiter) Allow(caller string) bool {
	if caller == "" {
		return true
	}
	return l.take(caller, l.maxReqs, l.window)
}

// AllowStrict applies a tighter budget for sensitive endpoints such as
// login. Strict counts live under their own key so they never consume
// the caller's default budget.
func (l *Limiter) AllowStrict(caller string, maxReqs int, window time.Duration) bool {
	return l.take("strict:"+caller, maxReqs, window)
}

func (l *Limiter) take(key string, maxReqs int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{}
		l.buckets[key] = b
	}

	cutoff := now.Add(-window)
	live := b.requests[:0]
	for _, t := range b.requests {
		if t.After(cutoff) {
			live = append(live, t)
		}
	}
	b.requests = live
	b.lastSeen = now

	if len(b.requests) >= maxReqs {
		return false
	}
	b.requests = append(b.requests, now)
	return true
}

func (l *Limiter) reapStaleBuckets() {
	for range l.cleanup.C {
		l.mu.Lock()
		stale := time.Now().Add(-15 * time.Minute)
		for key, b := range l.buckets {
			if b.lastSeen.Before(stale) {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

func (l *Limiter) Stop() {
	l.cleanup.Stop()
}
