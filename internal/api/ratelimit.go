package api

import (
	"sync"
	"time"
)

// RateLimiter allows a fixed number of requests per client within a sliding window
type RateLimiter struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	maxRequests int
	window      time.Duration
	lastSweep   time.Time
	now         func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow records a request for client and reports whether it is within the limit
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	recent := rl.prune(client, now)
	if len(recent) >= rl.maxRequests {
		rl.store(client, recent)
		return false
	}

	rl.requests[client] = append(recent, now)
	return true
}

// Remaining returns how many more requests client may make in the current window
func (rl *RateLimiter) Remaining(client string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := rl.prune(client, rl.now())
	rl.store(client, recent)
	if n := rl.maxRequests - len(recent); n > 0 {
		return n
	}
	return 0
}

// prune drops timestamps that fell out of the window. Caller holds mu.
func (rl *RateLimiter) prune(client string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	kept := rl.requests[client][:0]
	for _, t := range rl.requests[client] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// store keeps the timestamps of client, forgetting the client once none are
// left. Caller holds mu.
func (rl *RateLimiter) store(client string, recent []time.Time) {
	if len(recent) == 0 {
		delete(rl.requests, client)
		return
	}
	rl.requests[client] = recent
}

// sweep forgets idle clients, at most once per window. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now

	for client := range rl.requests {
		rl.store(client, rl.prune(client, now))
	}
}
