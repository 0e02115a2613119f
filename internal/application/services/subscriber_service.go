package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/subscriber"
	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SubscriberService manages the registered phone numbers that receive daily
// forecasts. Numbers are deactivated rather than deleted so re-registering
// an old number reactivates it.
type SubscriberService struct {
	repo   ports.SubscriberRepository
	logger *logrus.Logger
}

func NewSubscriberService(repo ports.SubscriberRepository, logger *logrus.Logger) *SubscriberService {
	return &SubscriberService{repo: repo, logger: logger}
}

var _ ports.SubscriberService = (*SubscriberService)(nil)

func (s *SubscriberService) Add(ctx context.Context, req *subscriber.AddRequest) (*subscriber.Subscriber, bool, error) {
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		return nil, false, fmt.Errorf("phone number is required")
	}

	existing, err := s.repo.GetByPhoneNumber(ctx, phone)
	if err == nil && existing != nil {
		if existing.IsActive {
			return nil, false, subscriber.ErrAlreadyExists
		}
		existing.IsActive = true
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("failed to reactivate subscriber: %w", err)
		}
		s.logger.WithField("phone_number", phone).Info("subscriber reactivated")
		return existing, true, nil
	}

	sub := &subscriber.Subscriber{
		ID:          uuid.New(),
		PhoneNumber: phone,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, false, fmt.Errorf("failed to create subscriber: %w", err)
	}
	s.logger.WithField("phone_number", phone).Info("subscriber registered")
	return sub, false, nil
}

func (s *SubscriberService) Deactivate(ctx context.Context, id uuid.UUID) error {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("subscriber not found: %w", err)
	}
	if !sub.IsActive {
		return nil
	}
	sub.IsActive = false
	if err := s.repo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to deactivate subscriber: %w", err)
	}
	return nil
}

func (s *SubscriberService) ListActive(ctx context.Context) ([]*subscriber.Subscriber, error) {
	return s.repo.ListActive(ctx)
}

func (s *SubscriberService) CountActive(ctx context.Context) (int, error) {
	return s.repo.CountActive(ctx)
}
