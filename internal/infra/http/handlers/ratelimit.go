package handlers

import (
	"sync"
	"time"
)

// RateLimiter is a fixed-window per-fingerprint limiter. Single-process only:
// a multi-instance deployment needs a shared counter store instead.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*rateEntry
	limit   int
	window  time.Duration
	stop    chan struct{}
}

type rateEntry struct {
	count   int
	resetAt time.Time
}

type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		entries: make(map[string]*rateEntry),
		limit:   limit,
		window:  window,
		stop:    make(chan struct{}),
	}

	go rl.sweep()
	return rl
}

// Check counts one request against the fingerprint's window. Entries past
// their reset time are treated as absent.
func (rl *RateLimiter) Check(fingerprint string) RateLimitResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	e, exists := rl.entries[fingerprint]
	if !exists || now.After(e.resetAt) {
		e = &rateEntry{count: 1, resetAt: now.Add(rl.window)}
		rl.entries[fingerprint] = e
		return RateLimitResult{Allowed: true, Remaining: rl.limit - 1, ResetAt: e.resetAt}
	}

	if e.count >= rl.limit {
		return RateLimitResult{Allowed: false, Remaining: 0, ResetAt: e.resetAt}
	}

	e.count++
	return RateLimitResult{Allowed: true, Remaining: rl.limit - e.count, ResetAt: e.resetAt}
}

// Stop ends the background sweep.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for fp, e := range rl.entries {
				if now.After(e.resetAt) {
					delete(rl.entries, fp)
				}
			}
			rl.mu.Unlock()
		}
	}
}
