package ports

import (
	"context"
	"net/http"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/sms"
)

// ProviderResponse is a raw upstream reply. Body is kept as bytes so the
// gateway decides how (and whether) to decode it.
type ProviderResponse struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// SMSProvider is the upstream messaging API client. A non-nil error means the
// provider produced no response at all (network failure or timeout); HTTP
// errors come back as a ProviderResponse with a non-2xx status.
type SMSProvider interface {
	SendMessage(ctx context.Context, number, message, senderName string) (*ProviderResponse, error)
	GetAccount(ctx context.Context) (*ProviderResponse, error)
}

// SMSService is the gateway façade the dashboard and scheduler call. Results
// carry the HTTP status to serve alongside the response payload; upstream
// failure statuses are data, not errors.
type SMSService interface {
	SendMessage(ctx context.Context, req *sms.SendRequest) *sms.Result
	GetBalance(ctx context.Context) *sms.Result
}
