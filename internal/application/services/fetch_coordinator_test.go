package services_test

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	impl "github.com/miss-blue/JeepNiBackend/internal/application/services"
	"github.com/miss-blue/JeepNiBackend/internal/core/domain/sms"
)

func TestFetchCoordinator_CollapsesConcurrentMisses(t *testing.T) {
	clock := newFakeClock()
	cache := impl.NewBalanceCache(clock.Now)
	fc := impl.NewFetchCoordinator(cache)

	var calls int32
	fetch := func(ctx context.Context) *sms.Result {
		atomic.AddInt32(&calls, 1)
		// Simulate upstream latency so every goroutine piles up on the
		// fetch lock before the winner writes.
		time.Sleep(20 * time.Millisecond)
		payload := balancePayload(100)
		cache.WriteSuccess(payload, http.StatusOK, time.Minute)
		return &sms.Result{Status: http.StatusOK, Payload: payload}
	}

	const n = 16
	var wg sync.WaitGroup
	results := make([]*sms.Result, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = fc.Resolve(context.Background(), fetch)
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly one upstream fetch, got %d", got)
	}
	for i, res := range results {
		if res == nil || res.Status != http.StatusOK {
			t.Fatalf("request %d got %+v", i, res)
		}
	}
}

func TestFetchCoordinator_CacheHitSkipsFetch(t *testing.T) {
	clock := newFakeClock()
	cache := impl.NewBalanceCache(clock.Now)
	fc := impl.NewFetchCoordinator(cache)

	cache.WriteSuccess(balancePayload(50), http.StatusOK, time.Minute)

	res := fc.Resolve(context.Background(), func(ctx context.Context) *sms.Result {
		t.Fatalf("fetch must not run on a cache hit")
		return nil
	})
	if res.Status != http.StatusOK {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestFetchCoordinator_RefetchesAfterExpiry(t *testing.T) {
	clock := newFakeClock()
	cache := impl.NewBalanceCache(clock.Now)
	fc := impl.NewFetchCoordinator(cache)

	var calls int32
	fetch := func(ctx context.Context) *sms.Result {
		atomic.AddInt32(&calls, 1)
		payload := balancePayload(100)
		cache.WriteSuccess(payload, http.StatusOK, time.Minute)
		return &sms.Result{Status: http.StatusOK, Payload: payload}
	}

	fc.Resolve(context.Background(), fetch)
	clock.Advance(2 * time.Minute)
	fc.Resolve(context.Background(), fetch)

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected a refetch after expiry, got %d calls", got)
	}
}
