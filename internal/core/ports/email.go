package ports

import "context"

// AlertService notifies operators about account conditions that need a
// human, currently just a low SMS credit balance.
type AlertService interface {
	SendLowBalanceAlert(ctx context.Context, balance float64) error
}
