package prediction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNoStops means generation has nothing to forecast against.
	ErrNoStops = errors.New("no stops registered")
	// ErrNoUnsentToday means every forecast for today is already delivered.
	ErrNoUnsentToday = errors.New("no unsent predictions found for today")
)

// Prediction is a forecast passenger count for one stop on one date.
type Prediction struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	StopID         uuid.UUID  `json:"stop_id" db:"stop_id"`
	PredictionDate time.Time  `json:"prediction_date" db:"prediction_date"`
	PassengerCount int        `json:"passenger_count" db:"passenger_count"`
	PeakHour       int        `json:"peak_hour" db:"peak_hour"`
	Confidence     float64    `json:"confidence" db:"confidence"`
	IsSent         bool       `json:"is_sent" db:"is_sent"`
	SentAt         *time.Time `json:"sent_at" db:"sent_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// GenerateRequest optionally pins the target date; zero means today.
type GenerateRequest struct {
	Date string `json:"date"`
}
