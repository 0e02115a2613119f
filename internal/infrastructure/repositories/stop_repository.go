package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/stop"
	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StopRepository implements the stop repository interface
type StopRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewStopRepository creates a new stop repository
func NewStopRepository(database *db.Database, logger *logrus.Logger) ports.StopRepository {
	return &StopRepository{db: database, logger: logger}
}

func (r *StopRepository) Create(ctx context.Context, s *stop.JeepneyStop) error {
	query := `
		INSERT INTO jeepney_stops (id, name, route_code, latitude, longitude, stop_order, is_terminal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.DB.ExecContext(ctx, query,
		s.ID, s.Name, s.RouteCode, s.Latitude, s.Longitude, s.StopOrder, s.IsTerminal)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"stop_id": s.ID, "name": s.Name}).WithError(err).Error("db: failed to create stop")
		}
		return fmt.Errorf("failed to create stop: %w", err)
	}
	return nil
}

func (r *StopRepository) GetByID(ctx context.Context, id uuid.UUID) (*stop.JeepneyStop, error) {
	var s stop.JeepneyStop
	query := `
		SELECT id, name, route_code, latitude, longitude, stop_order, is_terminal, created_at
		FROM jeepney_stops
		WHERE id = $1`

	if err := r.db.DB.GetContext(ctx, &s, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("stop with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"stop_id": id}).WithError(err).Error("db: failed to get stop")
		}
		return nil, fmt.Errorf("failed to get stop: %w", err)
	}
	return &s, nil
}

func (r *StopRepository) List(ctx context.Context) ([]*stop.JeepneyStop, error) {
	var stops []*stop.JeepneyStop
	query := `
		SELECT id, name, route_code, latitude, longitude, stop_order, is_terminal, created_at
		FROM jeepney_stops
		ORDER BY stop_order, name`

	if err := r.db.DB.SelectContext(ctx, &stops, query); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list stops")
		}
		return nil, fmt.Errorf("failed to list stops: %w", err)
	}
	return stops, nil
}
