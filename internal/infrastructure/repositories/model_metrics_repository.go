package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/model"
	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

// ModelMetricsRepository implements the model metrics repository interface
type ModelMetricsRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewModelMetricsRepository creates a new model metrics repository
func NewModelMetricsRepository(database *db.Database, logger *logrus.Logger) ports.ModelMetricsRepository {
	return &ModelMetricsRepository{db: database, logger: logger}
}

func (r *ModelMetricsRepository) GetActive(ctx context.Context) (*model.Metrics, error) {
	var m model.Metrics
	query := `
		SELECT id, model_name, accuracy, mae, rmse, trained_at, is_active
		FROM model_metrics
		WHERE is_active = true
		ORDER BY trained_at DESC
		LIMIT 1`

	if err := r.db.DB.GetContext(ctx, &m, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no active model metrics found")
		}
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to get active model metrics")
		}
		return nil, fmt.Errorf("failed to get model metrics: %w", err)
	}
	return &m, nil
}
