package services

import (
	"sync"
	"time"

	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
)

// SlidingWindowRateLimiter implements ports.RateLimiter with an in-memory
// per-key sliding window. One mutex covers all keys; the critical section is
// bounded by window occupancy, not by any network call. Idle keys are never
// evicted, which is fine for the low client cardinality this dashboard sees.
type SlidingWindowRateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	max      int
	window   time.Duration
	clock    func() time.Time
}

// NewSlidingWindowRateLimiter creates a limiter admitting max requests per
// key per window. A nil clock defaults to time.Now.
func NewSlidingWindowRateLimiter(max int, window time.Duration, clock func() time.Time) *SlidingWindowRateLimiter {
	if clock == nil {
		clock = time.Now
	}
	return &SlidingWindowRateLimiter{
		requests: make(map[string][]time.Time),
		max:      max,
		window:   window,
		clock:    clock,
	}
}

var _ ports.RateLimiter = (*SlidingWindowRateLimiter)(nil)

// Allow prunes timestamps that fell out of the window, rejects without
// recording when the key is at capacity, and otherwise records the request.
func (l *SlidingWindowRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	retained := pruneBefore(l.requests[key], now.Add(-l.window))
	if len(retained) >= l.max {
		l.requests[key] = retained
		return false
	}
	l.requests[key] = append(retained, now)
	return true
}

// RetryAfter reports whole seconds until the key's oldest retained request
// leaves the window; 0 when nothing is recorded or the window already passed.
func (l *SlidingWindowRateLimiter) RetryAfter(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	stamps := l.requests[key]
	if len(stamps) == 0 {
		return 0
	}
	oldest := stamps[0]
	for _, ts := range stamps[1:] {
		if ts.Before(oldest) {
			oldest = ts
		}
	}
	remaining := oldest.Add(l.window).Sub(l.clock())
	if remaining <= 0 {
		return 0
	}
	return int(remaining / time.Second)
}

func pruneBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	retained := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			retained = append(retained, ts)
		}
	}
	return retained
}
