package ports

import (
	"context"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/stop"
	"github.com/google/uuid"
)

// StopRepository defines data access for jeepney stops.
type StopRepository interface {
	Create(ctx context.Context, s *stop.JeepneyStop) error
	GetByID(ctx context.Context, id uuid.UUID) (*stop.JeepneyStop, error)
	List(ctx context.Context) ([]*stop.JeepneyStop, error)
}

// StopService exposes stop operations to the HTTP layer.
type StopService interface {
	CreateStop(ctx context.Context, req *stop.CreateStopRequest) (*stop.JeepneyStop, error)
	ListStops(ctx context.Context) ([]*stop.JeepneyStop, error)
}
