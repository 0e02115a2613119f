package services

import (
	"net/http"
	"sync"
	"time"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/sms"
)

// BalanceCache holds the most recent successful balance response and the most
// recent error response, each with its own TTL. One mutex guards both entries
// so a reader never observes a half-updated pair. Expired entries are ignored
// by reads, never evicted; WriteStaleFallback relies on the lingering success
// payload to keep serving during provider throttling.
type BalanceCache struct {
	mu    sync.Mutex
	clock func() time.Time

	success    *sms.BalancePayload
	successAt  time.Time
	successTTL time.Duration
	status     int
	// retrievedAt tracks the last genuinely fresh fetch. Stale-refresh
	// writes deliberately leave it alone so last_updated_seconds_ago stays
	// truthful across repeated rate-limited refresh attempts.
	retrievedAt time.Time

	failure    *sms.ErrorPayload
	failureAt  time.Time
	failureTTL time.Duration
	failStatus int
}

// NewBalanceCache creates an empty cache. A nil clock defaults to time.Now.
func NewBalanceCache(clock func() time.Time) *BalanceCache {
	if clock == nil {
		clock = time.Now
	}
	return &BalanceCache{clock: clock}
}

// Read returns the live success entry if fresh, else the live error entry if
// fresh, else nothing. Callers receive copies, never cache references.
func (c *BalanceCache) Read() (*sms.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	if c.success != nil && c.status < http.StatusBadRequest &&
		c.successTTL > 0 && now.Sub(c.successAt) < c.successTTL {
		return &sms.Result{Status: c.status, Payload: c.success.Clone()}, true
	}
	if c.failure != nil && c.failureTTL > 0 && now.Sub(c.failureAt) < c.failureTTL {
		failureCopy := *c.failure
		return &sms.Result{Status: c.failStatus, Payload: &failureCopy}, true
	}
	return nil, false
}

// WriteSuccess stores a genuinely fresh success payload, advances the
// retrieval timestamp, and clears any pending error entry. A non-positive TTL
// means "do not cache" and leaves the cache untouched.
func (c *BalanceCache) WriteSuccess(payload *sms.BalancePayload, status int, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	c.success = payload.Clone()
	c.successAt = now
	c.successTTL = ttl
	c.status = status
	c.retrievedAt = now
	c.clearErrorLocked()
}

// WriteStaleFallback re-stores the previous success payload marked stale,
// with a retry hint and its true age, when one exists (fresh or expired).
// The retrieval timestamp is NOT advanced. Returns the payload that was
// served, or false when there is no prior success to fall back on.
func (c *BalanceCache) WriteStaleFallback(retryAfter int, note string) (*sms.BalancePayload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.success == nil || c.status >= http.StatusBadRequest {
		return nil, false
	}

	now := c.clock()
	stale := c.success.Clone()
	stale.Success = true
	stale.Stale = true
	stale.Note = note
	stale.RetryAfter = retryAfter
	if !c.retrievedAt.IsZero() {
		age := int(now.Sub(c.retrievedAt) / time.Second)
		if age < 0 {
			age = 0
		}
		stale.LastUpdatedSecondsAgo = &age
	} else {
		stale.LastUpdatedSecondsAgo = nil
		c.retrievedAt = now
	}

	c.success = stale
	c.successAt = now
	c.successTTL = time.Duration(retryAfter) * time.Second
	c.status = http.StatusOK
	c.clearErrorLocked()

	return stale.Clone(), true
}

// WriteError stores an error entry. The success entry is left untouched.
func (c *BalanceCache) WriteError(payload sms.ErrorPayload, status int, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failure = &payload
	c.failureAt = c.clock()
	c.failureTTL = ttl
	c.failStatus = status
}

func (c *BalanceCache) clearErrorLocked() {
	c.failure = nil
	c.failureAt = time.Time{}
	c.failureTTL = 0
	c.failStatus = 0
}
