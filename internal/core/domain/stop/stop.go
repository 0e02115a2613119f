package stop

import (
	"time"

	"github.com/google/uuid"
)

// JeepneyStop is a stop along the monitored route.
type JeepneyStop struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	RouteCode  string    `json:"route_code" db:"route_code"`
	Latitude   float64   `json:"latitude" db:"latitude"`
	Longitude  float64   `json:"longitude" db:"longitude"`
	StopOrder  int       `json:"stop_order" db:"stop_order"`
	IsTerminal bool      `json:"is_terminal" db:"is_terminal"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// CreateStopRequest represents the request to register a stop.
type CreateStopRequest struct {
	Name       string  `json:"name"`
	RouteCode  string  `json:"route_code"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	StopOrder  int     `json:"stop_order"`
	IsTerminal bool    `json:"is_terminal"`
}
