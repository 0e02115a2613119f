package ports

import (
	"context"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/prediction"
	"github.com/miss-blue/JeepNiBackend/internal/core/domain/subscriber"
)

// PushService delivers finished forecasts to subscribers. The delivery
// mechanism is an external collaborator; the gateway only hands over the
// batch once predictions are ready.
type PushService interface {
	SendPredictions(ctx context.Context, predictions []*prediction.Prediction, subscribers []*subscriber.Subscriber) error
}
