package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	impl "github.com/miss-blue/JeepNiBackend/internal/application/services"
	"github.com/miss-blue/JeepNiBackend/internal/core/domain/prediction"
	"github.com/miss-blue/JeepNiBackend/internal/core/domain/stop"
	"github.com/miss-blue/JeepNiBackend/internal/core/domain/subscriber"
)

type predictionRepoMock struct {
	createFn     func(ctx context.Context, p *prediction.Prediction) error
	listUnsentFn func(ctx context.Context, date time.Time) ([]*prediction.Prediction, error)
	markSentFn   func(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error
	averageFn    func(ctx context.Context, stopID uuid.UUID, weekday time.Weekday, lookback time.Duration) (float64, bool, error)
	deleteFn     func(ctx context.Context, date time.Time) error
}

func (m *predictionRepoMock) Create(ctx context.Context, p *prediction.Prediction) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}
func (m *predictionRepoMock) ListAll(ctx context.Context) ([]*prediction.Prediction, error) {
	return nil, nil
}
func (m *predictionRepoMock) ListByDate(ctx context.Context, date time.Time) ([]*prediction.Prediction, error) {
	return nil, nil
}
func (m *predictionRepoMock) ListUnsentByDate(ctx context.Context, date time.Time) ([]*prediction.Prediction, error) {
	if m.listUnsentFn != nil {
		return m.listUnsentFn(ctx, date)
	}
	return nil, nil
}
func (m *predictionRepoMock) MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error {
	if m.markSentFn != nil {
		return m.markSentFn(ctx, ids, sentAt)
	}
	return nil
}
func (m *predictionRepoMock) AverageForWeekday(ctx context.Context, stopID uuid.UUID, weekday time.Weekday, lookback time.Duration) (float64, bool, error) {
	if m.averageFn != nil {
		return m.averageFn(ctx, stopID, weekday, lookback)
	}
	return 0, false, nil
}
func (m *predictionRepoMock) DeleteByDate(ctx context.Context, date time.Time) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, date)
	}
	return nil
}

type stopRepoMock struct {
	listFn func(ctx context.Context) ([]*stop.JeepneyStop, error)
}

func (m *stopRepoMock) Create(ctx context.Context, s *stop.JeepneyStop) error { return nil }
func (m *stopRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*stop.JeepneyStop, error) {
	return nil, errors.New("not found")
}
func (m *stopRepoMock) List(ctx context.Context) ([]*stop.JeepneyStop, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type pushMock struct {
	sendFn func(ctx context.Context, predictions []*prediction.Prediction, subscribers []*subscriber.Subscriber) error
}

func (m *pushMock) SendPredictions(ctx context.Context, predictions []*prediction.Prediction, subscribers []*subscriber.Subscriber) error {
	if m.sendFn != nil {
		return m.sendFn(ctx, predictions, subscribers)
	}
	return nil
}

func TestGenerate_NoStops(t *testing.T) {
	svc := impl.NewPredictionService(&predictionRepoMock{}, &stopRepoMock{}, &subscriberRepoMock{}, &pushMock{}, quietLogger())

	_, err := svc.Generate(context.Background(), time.Now())
	if !errors.Is(err, prediction.ErrNoStops) {
		t.Fatalf("expected ErrNoStops, got %v", err)
	}
}

func TestGenerate_UsesHistoryWhenAvailable(t *testing.T) {
	withHistory := &stop.JeepneyStop{ID: uuid.New(), Name: "Market"}
	fresh := &stop.JeepneyStop{ID: uuid.New(), Name: "Terminal"}

	var created []*prediction.Prediction
	repo := &predictionRepoMock{
		createFn: func(ctx context.Context, p *prediction.Prediction) error {
			created = append(created, p)
			return nil
		},
		averageFn: func(ctx context.Context, stopID uuid.UUID, weekday time.Weekday, lookback time.Duration) (float64, bool, error) {
			if stopID == withHistory.ID {
				return 87.4, true, nil
			}
			return 0, false, nil
		},
	}
	stops := &stopRepoMock{
		listFn: func(ctx context.Context) ([]*stop.JeepneyStop, error) {
			return []*stop.JeepneyStop{withHistory, fresh}, nil
		},
	}
	svc := impl.NewPredictionService(repo, stops, &subscriberRepoMock{}, &pushMock{}, quietLogger())

	count, err := svc.Generate(context.Background(), time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 || len(created) != 2 {
		t.Fatalf("expected 2 predictions, got %d", count)
	}

	byStop := map[uuid.UUID]*prediction.Prediction{}
	for _, p := range created {
		byStop[p.StopID] = p
		if !p.PredictionDate.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("date must be truncated to midnight UTC, got %v", p.PredictionDate)
		}
	}
	if p := byStop[withHistory.ID]; p.PassengerCount != 87 || p.Confidence != 0.8 {
		t.Fatalf("history-backed forecast wrong: %+v", p)
	}
	if p := byStop[fresh.ID]; p.PassengerCount != 120 || p.Confidence != 0.5 {
		t.Fatalf("seed forecast wrong: %+v", p)
	}
}

func TestGenerate_ReplacesExistingForecasts(t *testing.T) {
	deleted := false
	repo := &predictionRepoMock{
		deleteFn: func(ctx context.Context, date time.Time) error {
			deleted = true
			return nil
		},
	}
	stops := &stopRepoMock{
		listFn: func(ctx context.Context) ([]*stop.JeepneyStop, error) {
			return []*stop.JeepneyStop{{ID: uuid.New()}}, nil
		},
	}
	svc := impl.NewPredictionService(repo, stops, &subscriberRepoMock{}, &pushMock{}, quietLogger())

	if _, err := svc.Generate(context.Background(), time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatalf("existing forecasts for the date must be cleared first")
	}
}

func TestSendToday_NoUnsent(t *testing.T) {
	svc := impl.NewPredictionService(&predictionRepoMock{}, &stopRepoMock{}, &subscriberRepoMock{}, &pushMock{}, quietLogger())

	_, _, err := svc.SendToday(context.Background())
	if !errors.Is(err, prediction.ErrNoUnsentToday) {
		t.Fatalf("expected ErrNoUnsentToday, got %v", err)
	}
}

func TestSendToday_MarksSentAfterPush(t *testing.T) {
	unsent := []*prediction.Prediction{
		{ID: uuid.New()},
		{ID: uuid.New()},
	}
	var marked []uuid.UUID
	repo := &predictionRepoMock{
		listUnsentFn: func(ctx context.Context, date time.Time) ([]*prediction.Prediction, error) {
			return unsent, nil
		},
		markSentFn: func(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error {
			marked = ids
			return nil
		},
	}
	subs := &subscriberRepoMock{
		listActiveFn: func(ctx context.Context) ([]*subscriber.Subscriber, error) {
			return []*subscriber.Subscriber{{PhoneNumber: "0917"}}, nil
		},
	}
	svc := impl.NewPredictionService(repo, &stopRepoMock{}, subs, &pushMock{}, quietLogger())

	sent, recipients, err := svc.SendToday(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 2 || recipients != 1 {
		t.Fatalf("unexpected counts sent=%d recipients=%d", sent, recipients)
	}
	if len(marked) != 2 {
		t.Fatalf("all delivered predictions must be marked sent")
	}
}

func TestSendToday_PushFailureLeavesUnsent(t *testing.T) {
	repo := &predictionRepoMock{
		listUnsentFn: func(ctx context.Context, date time.Time) ([]*prediction.Prediction, error) {
			return []*prediction.Prediction{{ID: uuid.New()}}, nil
		},
		markSentFn: func(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error {
			t.Fatalf("failed push must not mark anything sent")
			return nil
		},
	}
	push := &pushMock{
		sendFn: func(ctx context.Context, p []*prediction.Prediction, s []*subscriber.Subscriber) error {
			return errors.New("webhook down")
		},
	}
	svc := impl.NewPredictionService(repo, &stopRepoMock{}, &subscriberRepoMock{}, push, quietLogger())

	if _, _, err := svc.SendToday(context.Background()); err == nil {
		t.Fatalf("expected push failure to propagate")
	}
}
