package services

import (
	"context"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/model"
	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
)

// ModelMetricsService surfaces the active forecasting model's stats.
type ModelMetricsService struct {
	repo ports.ModelMetricsRepository
}

func NewModelMetricsService(repo ports.ModelMetricsRepository) *ModelMetricsService {
	return &ModelMetricsService{repo: repo}
}

var _ ports.ModelMetricsService = (*ModelMetricsService)(nil)

func (s *ModelMetricsService) GetActive(ctx context.Context) (*model.Metrics, error) {
	return s.repo.GetActive(ctx)
}
