// Package ratelimit keeps one token bucket per key (client IP, invitation token, token+IP pair).
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter allows Attempts events per Window for each key.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	rate     rate.Limit
	burst    int
	window   time.Duration
}

// New creates a limiter allowing attempts per window for every key.
func New(attempts int, window time.Duration) *Limiter {
	if attempts < 1 {
		attempts = 1
	}
	return &Limiter{
		limiters: make(map[string]*entry),
		rate:     rate.Every(window / time.Duration(attempts)),
		burst:    attempts,
		window:   window,
	}
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// Allow consumes one attempt and reports whether it was within the limit.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Exhausted reports whether key has no attempts left, without consuming one.
func (l *Limiter) Exhausted(key string) bool {
	return l.get(key).Tokens() < 1
}

// Hit records a failed attempt against key.
func (l *Limiter) Hit(key string) {
	l.get(key).Allow()
}

// Reset forgets key, restoring its full allowance.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.limiters, key)
}

// RetryAfter is the window length, used for the Retry-After header.
func (l *Limiter) RetryAfter() time.Duration {
	return l.window
}

// Cleanup drops keys idle for longer than the window; a key idle that long has refilled.
func (l *Limiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.window)
	removed := 0
	for key, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
