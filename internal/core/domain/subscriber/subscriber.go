package subscriber

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrAlreadyExists reports that the phone number is already registered and
// active.
var ErrAlreadyExists = errors.New("subscriber already exists")

// Subscriber is a registered phone number that receives daily forecasts.
type Subscriber struct {
	ID          uuid.UUID `json:"id" db:"id"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AddRequest represents the request to register a phone number.
type AddRequest struct {
	PhoneNumber string `json:"phone_number"`
}
