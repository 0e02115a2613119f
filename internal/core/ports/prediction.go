package ports

import (
	"context"
	"time"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/prediction"
	"github.com/google/uuid"
)

// PredictionRepository defines data access for passenger forecasts.
type PredictionRepository interface {
	Create(ctx context.Context, p *prediction.Prediction) error
	ListAll(ctx context.Context) ([]*prediction.Prediction, error)
	ListByDate(ctx context.Context, date time.Time) ([]*prediction.Prediction, error)
	ListUnsentByDate(ctx context.Context, date time.Time) ([]*prediction.Prediction, error)
	MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error
	// AverageForWeekday reports the mean passenger count recorded for the
	// stop on the same weekday over the trailing lookback window.
	AverageForWeekday(ctx context.Context, stopID uuid.UUID, weekday time.Weekday, lookback time.Duration) (float64, bool, error)
	DeleteByDate(ctx context.Context, date time.Time) error
}

// PredictionService exposes forecast operations to the HTTP layer.
type PredictionService interface {
	ListAll(ctx context.Context) ([]*prediction.Prediction, error)
	ListByDate(ctx context.Context, date time.Time) ([]*prediction.Prediction, error)
	Generate(ctx context.Context, date time.Time) (int, error)
	// SendToday pushes today's unsent forecasts to subscribers and marks
	// them sent. Returns the number of predictions delivered and the number
	// of subscribers reached.
	SendToday(ctx context.Context) (int, int, error)
}
