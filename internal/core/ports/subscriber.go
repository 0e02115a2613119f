package ports

import (
	"context"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/subscriber"
	"github.com/google/uuid"
)

// SubscriberRepository defines data access for registered phone numbers.
type SubscriberRepository interface {
	Create(ctx context.Context, s *subscriber.Subscriber) error
	GetByID(ctx context.Context, id uuid.UUID) (*subscriber.Subscriber, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*subscriber.Subscriber, error)
	Update(ctx context.Context, s *subscriber.Subscriber) error
	ListActive(ctx context.Context) ([]*subscriber.Subscriber, error)
	CountActive(ctx context.Context) (int, error)
}

// SubscriberService exposes subscriber management to the HTTP layer.
type SubscriberService interface {
	// Add registers a phone number, reactivating it when it was previously
	// deactivated. reactivated reports which path was taken.
	Add(ctx context.Context, req *subscriber.AddRequest) (sub *subscriber.Subscriber, reactivated bool, err error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context) ([]*subscriber.Subscriber, error)
	CountActive(ctx context.Context) (int, error)
}
