package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/subscriber"
	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/miss-blue/JeepNiBackend/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SubscriberRepository implements the subscriber repository interface
type SubscriberRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(database *db.Database, logger *logrus.Logger) ports.SubscriberRepository {
	return &SubscriberRepository{db: database, logger: logger}
}

func (r *SubscriberRepository) Create(ctx context.Context, s *subscriber.Subscriber) error {
	query := `
		INSERT INTO subscribers (id, phone_number, is_active)
		VALUES ($1, $2, $3)`

	_, err := r.db.DB.ExecContext(ctx, query, s.ID, s.PhoneNumber, s.IsActive)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subscriber_id": s.ID}).WithError(err).Error("db: failed to create subscriber")
		}
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	return nil
}

func (r *SubscriberRepository) GetByID(ctx context.Context, id uuid.UUID) (*subscriber.Subscriber, error) {
	var s subscriber.Subscriber
	query := `
		SELECT id, phone_number, is_active, created_at
		FROM subscribers
		WHERE id = $1`

	if err := r.db.DB.GetContext(ctx, &s, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("subscriber with ID %s not found", id)
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subscriber_id": id}).WithError(err).Error("db: failed to get subscriber")
		}
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	return &s, nil
}

func (r *SubscriberRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*subscriber.Subscriber, error) {
	var s subscriber.Subscriber
	query := `
		SELECT id, phone_number, is_active, created_at
		FROM subscribers
		WHERE phone_number = $1`

	if err := r.db.DB.GetContext(ctx, &s, query, phoneNumber); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("subscriber with number %s not found", phoneNumber)
		}
		return nil, fmt.Errorf("failed to get subscriber by number: %w", err)
	}
	return &s, nil
}

func (r *SubscriberRepository) Update(ctx context.Context, s *subscriber.Subscriber) error {
	query := `
		UPDATE subscribers
		SET phone_number = $2, is_active = $3
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, s.ID, s.PhoneNumber, s.IsActive)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"subscriber_id": s.ID}).WithError(err).Error("db: failed to update subscriber")
		}
		return fmt.Errorf("failed to update subscriber: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("subscriber with ID %s not found", s.ID)
	}
	return nil
}

func (r *SubscriberRepository) ListActive(ctx context.Context) ([]*subscriber.Subscriber, error) {
	var subs []*subscriber.Subscriber
	query := `
		SELECT id, phone_number, is_active, created_at
		FROM subscribers
		WHERE is_active = true
		ORDER BY created_at`

	if err := r.db.DB.SelectContext(ctx, &subs, query); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list subscribers")
		}
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subs, nil
}

func (r *SubscriberRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM subscribers WHERE is_active = true`

	if err := r.db.DB.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}
