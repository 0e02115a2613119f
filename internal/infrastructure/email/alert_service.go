package email

import (
	"context"
	"fmt"

	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// AlertConfig holds alert email settings.
type AlertConfig struct {
	SendGridAPIKey string
	FromEmail      string
	ToEmail        string
}

// AlertService sends operator alerts through SendGrid.
type AlertService struct {
	config *AlertConfig
	client *sendgrid.Client
	logger *logrus.Logger
}

// NewAlertService creates the alert sender. Returns an error when the alert
// channel is only partially configured so misconfiguration fails loudly at
// startup instead of silently dropping alerts.
func NewAlertService(config *AlertConfig, logger *logrus.Logger) (ports.AlertService, error) {
	if config.SendGridAPIKey == "" {
		return nil, fmt.Errorf("sendgrid API key is not set")
	}
	if config.ToEmail == "" {
		return nil, fmt.Errorf("alert recipient email is not set")
	}
	return &AlertService{
		config: config,
		client: sendgrid.NewSendClient(config.SendGridAPIKey),
		logger: logger,
	}, nil
}

// SendLowBalanceAlert notifies the operator that SMS credits are running out.
func (a *AlertService) SendLowBalanceAlert(ctx context.Context, balance float64) error {
	from := mail.NewEmail("JeepNi Alerts", a.config.FromEmail)
	to := mail.NewEmail("", a.config.ToEmail)

	subject := "JeepNi: SMS credit balance is low"
	body := fmt.Sprintf(
		"The Semaphore SMS credit balance has dropped to %.2f. Top up soon so daily forecast messages keep going out.",
		balance,
	)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	response, err := a.client.Send(message)
	if err != nil {
		a.logger.WithError(err).Error("failed to send low balance alert")
		return fmt.Errorf("failed to send low balance alert: %w", err)
	}

	a.logger.WithFields(logrus.Fields{
		"balance":     balance,
		"status_code": response.StatusCode,
	}).Info("low balance alert sent")
	return nil
}
