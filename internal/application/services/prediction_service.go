package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/prediction"
	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// historyLookback is how far back the generator reaches for same-weekday
// averages.
const historyLookback = 28 * 24 * time.Hour

// defaultPassengerCount seeds stops that have no history yet.
const defaultPassengerCount = 120

// PredictionService produces and distributes daily passenger forecasts.
type PredictionService struct {
	repo     ports.PredictionRepository
	stopRepo ports.StopRepository
	subRepo  ports.SubscriberRepository
	push     ports.PushService
	logger   *logrus.Logger
}

func NewPredictionService(repo ports.PredictionRepository, stopRepo ports.StopRepository, subRepo ports.SubscriberRepository, push ports.PushService, logger *logrus.Logger) *PredictionService {
	return &PredictionService{
		repo:     repo,
		stopRepo: stopRepo,
		subRepo:  subRepo,
		push:     push,
		logger:   logger,
	}
}

var _ ports.PredictionService = (*PredictionService)(nil)

func (s *PredictionService) ListAll(ctx context.Context) ([]*prediction.Prediction, error) {
	return s.repo.ListAll(ctx)
}

func (s *PredictionService) ListByDate(ctx context.Context, date time.Time) ([]*prediction.Prediction, error) {
	return s.repo.ListByDate(ctx, truncateToDate(date))
}

// Generate replaces the forecasts for the given date with one per stop,
// based on the trailing same-weekday average (or a seed value for stops
// without history). Returns the number of predictions created.
func (s *PredictionService) Generate(ctx context.Context, date time.Time) (int, error) {
	date = truncateToDate(date)

	stops, err := s.stopRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list stops: %w", err)
	}
	if len(stops) == 0 {
		return 0, prediction.ErrNoStops
	}

	if err := s.repo.DeleteByDate(ctx, date); err != nil {
		return 0, fmt.Errorf("failed to clear existing predictions: %w", err)
	}

	created := 0
	for _, st := range stops {
		count := float64(defaultPassengerCount)
		confidence := 0.5
		if avg, ok, err := s.repo.AverageForWeekday(ctx, st.ID, date.Weekday(), historyLookback); err == nil && ok {
			count = avg
			confidence = 0.8
		}

		p := &prediction.Prediction{
			ID:             uuid.New(),
			StopID:         st.ID,
			PredictionDate: date,
			PassengerCount: int(math.Round(count)),
			PeakHour:       peakHourFor(date.Weekday()),
			Confidence:     confidence,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return created, fmt.Errorf("failed to store prediction for stop %s: %w", st.ID, err)
		}
		created++
	}

	s.logger.WithFields(logrus.Fields{"date": date.Format("2006-01-02"), "count": created}).Info("generated daily predictions")
	return created, nil
}

// SendToday hands today's unsent forecasts to the push collaborator and
// marks them sent only after the handover succeeds.
func (s *PredictionService) SendToday(ctx context.Context) (int, int, error) {
	today := truncateToDate(time.Now().UTC())

	unsent, err := s.repo.ListUnsentByDate(ctx, today)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load unsent predictions: %w", err)
	}
	if len(unsent) == 0 {
		return 0, 0, prediction.ErrNoUnsentToday
	}

	subscribers, err := s.subRepo.ListActive(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load subscribers: %w", err)
	}

	if err := s.push.SendPredictions(ctx, unsent, subscribers); err != nil {
		return 0, 0, fmt.Errorf("failed to push predictions: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(unsent))
	for _, p := range unsent {
		ids = append(ids, p.ID)
	}
	if err := s.repo.MarkSent(ctx, ids, time.Now().UTC()); err != nil {
		return 0, 0, fmt.Errorf("failed to mark predictions sent: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"predictions": len(unsent), "subscribers": len(subscribers)}).Info("predictions sent")
	return len(unsent), len(subscribers), nil
}

// peakHourFor is a coarse heuristic: weekday rush at 07:00, weekends at 10:00.
func peakHourFor(day time.Weekday) int {
	if day == time.Saturday || day == time.Sunday {
		return 10
	}
	return 7
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
