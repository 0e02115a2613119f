package services_test

import (
	"net/http"
	"sync"
	"testing"
	"time"

	impl "github.com/miss-blue/JeepNiBackend/internal/application/services"
	"github.com/miss-blue/JeepNiBackend/internal/core/domain/sms"
)

// fakeClock is a manually advanced clock shared by the cache and service
// tests in this package.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func balancePayload(balance float64) *sms.BalancePayload {
	return &sms.BalancePayload{Success: true, Balance: &balance}
}

func TestBalanceCache_SuccessExpiresAfterTTL(t *testing.T) {
	clock := newFakeClock()
	cache := impl.NewBalanceCache(clock.Now)

	cache.WriteSuccess(balancePayload(100), http.StatusOK, 60*time.Second)

	if _, ok := cache.Read(); !ok {
		t.Fatalf("expected fresh entry to be readable")
	}

	clock.Advance(59 * time.Second)
	if _, ok := cache.Read(); !ok {
		t.Fatalf("entry should still be live at 59s")
	}

	clock.Advance(2 * time.Second)
	if _, ok := cache.Read(); ok {
		t.Fatalf("entry should be expired at 61s")
	}
}

func TestBalanceCache_NonPositiveTTLMeansDoNotCache(t *testing.T) {
	cache := impl.NewBalanceCache(newFakeClock().Now)
	cache.WriteSuccess(balancePayload(100), http.StatusOK, 0)
	if _, ok := cache.Read(); ok {
		t.Fatalf("zero TTL must not cache")
	}
}

func TestBalanceCache_SuccessClearsPendingError(t *testing.T) {
	clock := newFakeClock()
	cache := impl.NewBalanceCache(clock.Now)

	cache.WriteError(sms.ErrorPayload{Success: false, Error: "boom"}, http.StatusBadGateway, 10*time.Second)
	res, ok := cache.Read()
	if !ok || res.Status != http.StatusBadGateway {
		t.Fatalf("expected cached error, got %+v ok=%v", res, ok)
	}

	cache.WriteSuccess(balancePayload(100), http.StatusOK, 60*time.Second)
	res, ok = cache.Read()
	if !ok || res.Status != http.StatusOK {
		t.Fatalf("success write must replace the error entry, got %+v", res)
	}
}

func TestBalanceCache_StaleFallbackPreservesAge(t *testing.T) {
	clock := newFakeClock()
	cache := impl.NewBalanceCache(clock.Now)

	cache.WriteSuccess(balancePayload(100), http.StatusOK, 60*time.Second)

	// Expired success, then the provider starts throttling.
	clock.Advance(70 * time.Second)

	stale, ok := cache.WriteStaleFallback(30, "throttled")
	if !ok {
		t.Fatalf("expected a stale fallback from the lingering success entry")
	}
	if !stale.Stale || stale.Note != "throttled" || stale.RetryAfter != 30 {
		t.Fatalf("stale markers not applied: %+v", stale)
	}
	if stale.LastUpdatedSecondsAgo == nil || *stale.LastUpdatedSecondsAgo != 70 {
		t.Fatalf("expected age 70s, got %v", stale.LastUpdatedSecondsAgo)
	}

	// A second throttled refresh later must report the age from the original
	// fetch, not from the stale re-store.
	clock.Advance(30 * time.Second)
	stale, ok = cache.WriteStaleFallback(30, "throttled")
	if !ok {
		t.Fatalf("expected fallback to keep working")
	}
	if stale.LastUpdatedSecondsAgo == nil || *stale.LastUpdatedSecondsAgo != 100 {
		t.Fatalf("age must grow from the original fetch, got %v", stale.LastUpdatedSecondsAgo)
	}
}

func TestBalanceCache_StaleFallbackNeedsPriorSuccess(t *testing.T) {
	cache := impl.NewBalanceCache(newFakeClock().Now)
	if _, ok := cache.WriteStaleFallback(30, "throttled"); ok {
		t.Fatalf("no prior success means no fallback")
	}
}

func TestBalanceCache_ReadReturnsCopies(t *testing.T) {
	clock := newFakeClock()
	cache := impl.NewBalanceCache(clock.Now)
	cache.WriteSuccess(balancePayload(100), http.StatusOK, 60*time.Second)

	res, ok := cache.Read()
	if !ok {
		t.Fatalf("expected a hit")
	}
	payload := res.Payload.(*sms.BalancePayload)
	*payload.Balance = -1
	payload.Note = "mutated"

	res2, _ := cache.Read()
	payload2 := res2.Payload.(*sms.BalancePayload)
	if *payload2.Balance != 100 || payload2.Note != "" {
		t.Fatalf("caller mutation leaked into the cache: %+v", payload2)
	}
}
