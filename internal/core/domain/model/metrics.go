package model

import (
	"time"

	"github.com/google/uuid"
)

// Metrics describes the forecasting model currently in service.
type Metrics struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ModelName string    `json:"model_name" db:"model_name"`
	Accuracy  float64   `json:"accuracy" db:"accuracy"`
	MAE       float64   `json:"mae" db:"mae"`
	RMSE      float64   `json:"rmse" db:"rmse"`
	TrainedAt time.Time `json:"trained_at" db:"trained_at"`
	IsActive  bool      `json:"is_active" db:"is_active"`
}
