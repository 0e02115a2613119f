package ports

import (
	"context"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/model"
)

// ModelMetricsRepository defines data access for forecasting model metrics.
type ModelMetricsRepository interface {
	GetActive(ctx context.Context) (*model.Metrics, error)
}

// ModelMetricsService exposes the active model's stats to the HTTP layer.
type ModelMetricsService interface {
	GetActive(ctx context.Context) (*model.Metrics, error)
}
