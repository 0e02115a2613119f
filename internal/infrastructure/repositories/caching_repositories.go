package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/model"
	"github.com/miss-blue/JeepNiBackend/internal/core/domain/stop"
	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// sf coalesces concurrent cache-miss loads across all caching decorators.
var sf singleflight.Group

// Utility helpers
func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// loadWithSingleflight coalesces a load, caches the result, and returns it.
func loadWithSingleflight[T any](cache ports.Cache, ctx context.Context, key string, ttl time.Duration, loader func() (T, error)) (T, error) {
	if v, ok := cacheGet[T](cache, ctx, key); ok {
		return *v, nil
	}
	res, err, _ := sf.Do(key, func() (any, error) {
		if v, ok := cacheGet[T](cache, ctx, key); ok {
			return *v, nil
		}
		loaded, err := loader()
		if err != nil {
			return nil, err
		}
		cacheSetSilently(cache, ctx, key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := res.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected type from singleflight result")
	}
	return typed, nil
}

// CachingStopRepository fronts the stop repository with the shared cache.
// Stops change rarely and are read on every dashboard load and every
// prediction run, so the full list is the cached unit.
type CachingStopRepository struct {
	inner ports.StopRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingStopRepository(inner ports.StopRepository, cache ports.Cache, ttl time.Duration) ports.StopRepository {
	return &CachingStopRepository{inner: inner, cache: cache, ttl: ttl}
}

const stopListKey = "stops:all"

func (r *CachingStopRepository) Create(ctx context.Context, s *stop.JeepneyStop) error {
	if err := r.inner.Create(ctx, s); err != nil {
		return err
	}
	if r.cache != nil {
		_ = r.cache.Delete(ctx, stopListKey)
	}
	return nil
}

func (r *CachingStopRepository) GetByID(ctx context.Context, id uuid.UUID) (*stop.JeepneyStop, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *CachingStopRepository) List(ctx context.Context) ([]*stop.JeepneyStop, error) {
	return loadWithSingleflight(r.cache, ctx, stopListKey, r.ttl, func() ([]*stop.JeepneyStop, error) {
		return r.inner.List(ctx)
	})
}

// CachingModelMetricsRepository caches the active model record, which only
// changes when a new model is promoted.
type CachingModelMetricsRepository struct {
	inner ports.ModelMetricsRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingModelMetricsRepository(inner ports.ModelMetricsRepository, cache ports.Cache, ttl time.Duration) ports.ModelMetricsRepository {
	return &CachingModelMetricsRepository{inner: inner, cache: cache, ttl: ttl}
}

const activeModelKey = "model_metrics:active"

func (r *CachingModelMetricsRepository) GetActive(ctx context.Context) (*model.Metrics, error) {
	return loadWithSingleflight(r.cache, ctx, activeModelKey, r.ttl, func() (*model.Metrics, error) {
		return r.inner.GetActive(ctx)
	})
}
