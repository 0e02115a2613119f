package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/stop"
	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/google/uuid"
)

// StopService manages the route's stops.
type StopService struct {
	repo ports.StopRepository
}

func NewStopService(repo ports.StopRepository) *StopService {
	return &StopService{repo: repo}
}

var _ ports.StopService = (*StopService)(nil)

func (s *StopService) CreateStop(ctx context.Context, req *stop.CreateStopRequest) (*stop.JeepneyStop, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("stop name is required")
	}
	st := &stop.JeepneyStop{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		RouteCode:  req.RouteCode,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		StopOrder:  req.StopOrder,
		IsTerminal: req.IsTerminal,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to create stop: %w", err)
	}
	return st, nil
}

func (s *StopService) ListStops(ctx context.Context) ([]*stop.JeepneyStop, error) {
	return s.repo.List(ctx)
}
