package services

import (
	"context"
	"sync"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/sms"
)

// FetchCoordinator collapses concurrent balance cache misses into a single
// upstream call. The fetch mutex is distinct from the cache mutex and is held
// for the full duration of the upstream call; that duration is the
// serialization boundary for every concurrent requester.
type FetchCoordinator struct {
	cache   *BalanceCache
	fetchMu sync.Mutex
}

func NewFetchCoordinator(cache *BalanceCache) *FetchCoordinator {
	return &FetchCoordinator{cache: cache}
}

// Resolve returns a cached result when one is live, otherwise serializes the
// given fetch. The re-check after acquiring the fetch mutex is what turns N
// concurrent misses into one upstream call: every waiter that loses the race
// finds the winner's write already in the cache.
func (fc *FetchCoordinator) Resolve(ctx context.Context, fetch func(ctx context.Context) *sms.Result) *sms.Result {
	if res, ok := fc.cache.Read(); ok {
		return res
	}

	fc.fetchMu.Lock()
	defer fc.fetchMu.Unlock()

	if res, ok := fc.cache.Read(); ok {
		return res
	}

	return fetch(ctx)
}
