package repositories_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/model"
	"github.com/miss-blue/JeepNiBackend/internal/core/domain/stop"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/repositories"
)

// memoryCache is a minimal ports.Cache for decorator tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	return b, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deletes++
	return nil
}

type stopRepoStub struct {
	mu    sync.Mutex
	lists int
	stops []*stop.JeepneyStop
}

func (s *stopRepoStub) Create(ctx context.Context, st *stop.JeepneyStop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops = append(s.stops, st)
	return nil
}

func (s *stopRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*stop.JeepneyStop, error) {
	return nil, errors.New("not found")
}

func (s *stopRepoStub) List(ctx context.Context) ([]*stop.JeepneyStop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	return s.stops, nil
}

type modelRepoStub struct {
	calls   int
	metrics *model.Metrics
	err     error
}

func (m *modelRepoStub) GetActive(ctx context.Context) (*model.Metrics, error) {
	m.calls++
	return m.metrics, m.err
}

func TestCachingStopRepository_ListServedFromCache(t *testing.T) {
	inner := &stopRepoStub{stops: []*stop.JeepneyStop{{ID: uuid.New(), Name: "Market"}}}
	cache := newMemoryCache()
	repo := repositories.NewCachingStopRepository(inner, cache, time.Minute)

	first, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first[0].Name, second[0].Name)
	assert.Equal(t, 1, inner.lists, "second list must be a cache hit")
}

func TestCachingStopRepository_CreateInvalidatesList(t *testing.T) {
	inner := &stopRepoStub{}
	cache := newMemoryCache()
	repo := repositories.NewCachingStopRepository(inner, cache, time.Minute)

	_, err := repo.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.Create(context.Background(), &stop.JeepneyStop{ID: uuid.New(), Name: "Terminal"}))
	assert.Equal(t, 1, cache.deletes, "create must drop the cached list")

	stops, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, stops, 1)
	assert.Equal(t, 2, inner.lists, "list after invalidation must reload")
}

func TestCachingStopRepository_NilCacheDegradesToInner(t *testing.T) {
	inner := &stopRepoStub{}
	repo := repositories.NewCachingStopRepository(inner, nil, time.Minute)

	_, err := repo.List(context.Background())
	require.NoError(t, err)
	_, err = repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.lists)
}

func TestCachingModelMetricsRepository_CachesActiveModel(t *testing.T) {
	inner := &modelRepoStub{metrics: &model.Metrics{ID: uuid.New(), ModelName: "gbt-v3", Accuracy: 0.91}}
	cache := newMemoryCache()
	repo := repositories.NewCachingModelMetricsRepository(inner, cache, time.Minute)

	first, err := repo.GetActive(context.Background())
	require.NoError(t, err)

	second, err := repo.GetActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ModelName, second.ModelName)
	assert.Equal(t, 1, inner.calls)
}

func TestCachingModelMetricsRepository_ErrorNotCached(t *testing.T) {
	inner := &modelRepoStub{err: errors.New("no active model metrics found")}
	cache := newMemoryCache()
	repo := repositories.NewCachingModelMetricsRepository(inner, cache, time.Minute)

	_, err := repo.GetActive(context.Background())
	require.Error(t, err)
	assert.Zero(t, cache.sets, "failed loads must not be cached")
}
