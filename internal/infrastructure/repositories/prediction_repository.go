package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/prediction"
	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// PredictionRepository implements the prediction repository interface
type PredictionRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(database *db.Database, logger *logrus.Logger) ports.PredictionRepository {
	return &PredictionRepository{db: database, logger: logger}
}

const predictionColumns = `id, stop_id, prediction_date, passenger_count, peak_hour, confidence, is_sent, sent_at, created_at`

func (r *PredictionRepository) Create(ctx context.Context, p *prediction.Prediction) error {
	query := `
		INSERT INTO predictions (id, stop_id, prediction_date, passenger_count, peak_hour, confidence, is_sent, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.DB.ExecContext(ctx, query,
		p.ID, p.StopID, p.PredictionDate, p.PassengerCount, p.PeakHour, p.Confidence, p.IsSent, p.SentAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"prediction_id": p.ID, "stop_id": p.StopID}).WithError(err).Error("db: failed to create prediction")
		}
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ListAll(ctx context.Context) ([]*prediction.Prediction, error) {
	var predictions []*prediction.Prediction
	query := `SELECT ` + predictionColumns + ` FROM predictions ORDER BY prediction_date DESC, created_at`

	if err := r.db.DB.SelectContext(ctx, &predictions, query); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list predictions")
		}
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return predictions, nil
}

func (r *PredictionRepository) ListByDate(ctx context.Context, date time.Time) ([]*prediction.Prediction, error) {
	var predictions []*prediction.Prediction
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE prediction_date = $1 ORDER BY created_at`

	if err := r.db.DB.SelectContext(ctx, &predictions, query, date); err != nil {
		return nil, fmt.Errorf("failed to list predictions by date: %w", err)
	}
	return predictions, nil
}

func (r *PredictionRepository) ListUnsentByDate(ctx context.Context, date time.Time) ([]*prediction.Prediction, error) {
	var predictions []*prediction.Prediction
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE prediction_date = $1 AND is_sent = false ORDER BY created_at`

	if err := r.db.DB.SelectContext(ctx, &predictions, query, date); err != nil {
		return nil, fmt.Errorf("failed to list unsent predictions: %w", err)
	}
	return predictions, nil
}

func (r *PredictionRepository) MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE predictions SET is_sent = true, sent_at = ? WHERE id IN (?)`, sentAt, ids)
	if err != nil {
		return fmt.Errorf("failed to build mark-sent query: %w", err)
	}
	query = r.db.DB.Rebind(query)

	if _, err := r.db.DB.ExecContext(ctx, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithField("count", len(ids)).WithError(err).Error("db: failed to mark predictions sent")
		}
		return fmt.Errorf("failed to mark predictions sent: %w", err)
	}
	return nil
}

func (r *PredictionRepository) AverageForWeekday(ctx context.Context, stopID uuid.UUID, weekday time.Weekday, lookback time.Duration) (float64, bool, error) {
	var avg sql.NullFloat64
	// Postgres EXTRACT(DOW ...) numbers Sunday as 0, matching time.Weekday.
	query := `
		SELECT AVG(passenger_count)
		FROM predictions
		WHERE stop_id = $1
		  AND EXTRACT(DOW FROM prediction_date) = $2
		  AND prediction_date >= $3`

	since := time.Now().UTC().Add(-lookback)
	if err := r.db.DB.GetContext(ctx, &avg, query, stopID, int(weekday), since); err != nil {
		return 0, false, fmt.Errorf("failed to compute weekday average: %w", err)
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}

func (r *PredictionRepository) DeleteByDate(ctx context.Context, date time.Time) error {
	if _, err := r.db.DB.ExecContext(ctx, `DELETE FROM predictions WHERE prediction_date = $1`, date); err != nil {
		return fmt.Errorf("failed to delete predictions for date: %w", err)
	}
	return nil
}
