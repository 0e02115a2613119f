package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/prediction"
	"github.com/miss-blue/JeepNiBackend/internal/core/domain/subscriber"
	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// WebhookConfig holds the delivery endpoint for finished forecasts.
type WebhookConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// WebhookService hands forecast batches to the external delivery system via
// a webhook. Delivery semantics past this handover are the collaborator's
// problem, not the gateway's.
type WebhookService struct {
	config *WebhookConfig
	http   *http.Client
	logger *logrus.Logger
}

func NewWebhookService(config *WebhookConfig, logger *logrus.Logger) *WebhookService {
	return &WebhookService{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

var _ ports.PushService = (*WebhookService)(nil)

func (w *WebhookService) SendPredictions(ctx context.Context, predictions []*prediction.Prediction, subscribers []*subscriber.Subscriber) error {
	if w.config.WebhookURL == "" {
		return fmt.Errorf("push webhook URL is not configured")
	}

	numbers := make([]string, 0, len(subscribers))
	for _, s := range subscribers {
		numbers = append(numbers, s.PhoneNumber)
	}
	payload := map[string]any{
		"predictions": predictions,
		"recipients":  numbers,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("push webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push webhook returned status %d", resp.StatusCode)
	}

	w.logger.WithFields(logrus.Fields{
		"predictions": len(predictions),
		"recipients":  len(numbers),
	}).Info("forecast batch handed to push webhook")
	return nil
}
