package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/sms"
	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/sirupsen/logrus"
)

const (
	errNotConfigured    = "SMS service is not configured on the server."
	errMissingRecipient = "At least one recipient number is required."
	errMissingMessage   = "Message content is required."
	errMessageTooLong   = "Message exceeds 160 character limit for single SMS segment."
	errUnreachable      = "Unable to reach SMS service. Please try again later."
	errRateLimited      = "Semaphore rate limit reached. Please wait before refreshing the balance."
	staleBalanceNote    = "Showing cached balance. Semaphore rate limit reached; please retry later."
	nonJSONBalanceNote  = "Semaphore returned a non-JSON response."
)

// SMSServiceConfig groups gateway policy settings.
type SMSServiceConfig struct {
	APIKey              string
	SenderName          string
	BalanceCacheTTL     time.Duration
	LowBalanceThreshold float64
	AlertMinInterval    time.Duration
}

// SMSService fronts the upstream SMS provider: it validates outbound sends
// and serves the account balance through the cache and fetch coordinator so
// a flapping or throttling provider never gets hammered.
type SMSService struct {
	provider    ports.SMSProvider
	cache       *BalanceCache
	coordinator *FetchCoordinator
	alerts      ports.AlertService
	config      *SMSServiceConfig
	logger      *logrus.Logger
	clock       func() time.Time

	alertMu     sync.Mutex
	lastAlertAt time.Time
}

// NewSMSService wires the gateway. alerts may be nil when no operator alert
// channel is configured. A nil clock defaults to time.Now.
func NewSMSService(provider ports.SMSProvider, cache *BalanceCache, coordinator *FetchCoordinator, alerts ports.AlertService, config *SMSServiceConfig, logger *logrus.Logger, clock func() time.Time) *SMSService {
	if clock == nil {
		clock = time.Now
	}
	return &SMSService{
		provider:    provider,
		cache:       cache,
		coordinator: coordinator,
		alerts:      alerts,
		config:      config,
		logger:      logger,
		clock:       clock,
	}
}

var _ ports.SMSService = (*SMSService)(nil)

// SendMessage validates and forwards an outbound SMS. Validation failures
// never reach the provider.
func (s *SMSService) SendMessage(ctx context.Context, req *sms.SendRequest) *sms.Result {
	if s.config.APIKey == "" {
		s.logger.Error("semaphore API key is not configured; aborting SMS send")
		return failure(http.StatusInternalServerError, errNotConfigured)
	}

	recipients := req.RecipientString()
	message := strings.TrimSpace(req.Message)

	if recipients == "" {
		return failure(http.StatusBadRequest, errMissingRecipient)
	}
	if message == "" {
		return failure(http.StatusBadRequest, errMissingMessage)
	}
	if utf8.RuneCountInString(message) > sms.MaxMessageLength {
		return failure(http.StatusBadRequest, errMessageTooLong)
	}

	resp, err := s.provider.SendMessage(ctx, recipients, message, req.SenderLabel(s.config.SenderName))
	if err != nil {
		s.logger.WithError(err).Error("error contacting semaphore API")
		return failure(http.StatusBadGateway, errUnreachable)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		errorBody := decodeBodyOrWrap(resp.Body)
		s.logger.WithFields(logrus.Fields{"status": resp.StatusCode, "body": errorBody}).Error("semaphore API returned an error")
		return &sms.Result{
			Status:  resp.StatusCode,
			Payload: &sms.ErrorPayload{Success: false, Error: errorBody},
		}
	}

	var body any
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		// A 2xx means the provider accepted the send even if the body is
		// not decodable.
		s.logger.WithField("body", string(resp.Body)).Warn("semaphore response was not JSON")
		return &sms.Result{
			Status:  http.StatusOK,
			Payload: map[string]any{"success": true, "raw": string(resp.Body)},
		}
	}
	return &sms.Result{Status: http.StatusOK, Payload: body}
}

// GetBalance serves the account balance, preferring cached results and
// collapsing concurrent misses into one upstream call.
func (s *SMSService) GetBalance(ctx context.Context) *sms.Result {
	if s.config.APIKey == "" {
		s.logger.Error("semaphore API key is not configured; cannot fetch balance")
		return failure(http.StatusInternalServerError, errNotConfigured)
	}
	return s.coordinator.Resolve(ctx, s.fetchBalance)
}

// fetchBalance performs the actual upstream call. It runs under the
// coordinator's fetch lock and is responsible for persisting whatever it
// learns so the waiters blocked on that lock get a cache hit.
func (s *SMSService) fetchBalance(ctx context.Context) *sms.Result {
	resp, err := s.provider.GetAccount(ctx)
	if err != nil {
		s.logger.WithError(err).Error("error contacting semaphore API for balance")
		payload := sms.ErrorPayload{Success: false, Error: errUnreachable}
		s.cache.WriteError(payload, http.StatusBadGateway, s.errorTTL())
		return &sms.Result{Status: http.StatusBadGateway, Payload: &payload}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return s.handleBalanceError(resp)
	}

	var raw any
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		s.logger.WithField("body", string(resp.Body)).Warn("semaphore account response was not JSON")
		payload := &sms.BalancePayload{
			Success:     true,
			Balance:     nil,
			Raw:         string(resp.Body),
			Note:        nonJSONBalanceNote,
			RetrievedAt: s.clock().UTC().Format(time.RFC3339),
		}
		s.cache.WriteSuccess(payload, http.StatusOK, s.config.BalanceCacheTTL)
		return &sms.Result{Status: http.StatusOK, Payload: payload}
	}

	payload := sms.NormalizeAccount(raw, s.config.SenderName, s.clock())
	s.cache.WriteSuccess(payload, http.StatusOK, s.config.BalanceCacheTTL)
	s.maybeAlertLowBalance(payload)
	return &sms.Result{Status: http.StatusOK, Payload: payload}
}

// handleBalanceError applies the rate-limit detection and caching policy for
// upstream HTTP errors.
func (s *SMSService) handleBalanceError(resp *ports.ProviderResponse) *sms.Result {
	status := resp.StatusCode
	errorBody := decodeBodyOrWrap(resp.Body)
	retryHeader := resp.Header.Get("Retry-After")

	// The provider is known to report throttling with non-standard statuses:
	// a Retry-After header, or "rate limit" buried somewhere in the body,
	// both mean 429 regardless of what it actually sent.
	if status != http.StatusTooManyRequests {
		if retryHeader != "" {
			s.logger.WithFields(logrus.Fields{"status": status, "retry_after": retryHeader}).
				Warn("semaphore returned non-429 with Retry-After; treating as rate limit")
			status = http.StatusTooManyRequests
		} else if isRateLimitPayload(errorBody) {
			s.logger.WithField("status", resp.StatusCode).
				Warn("semaphore payload indicates rate limiting; coercing status to 429")
			status = http.StatusTooManyRequests
		}
	}

	s.logger.WithFields(logrus.Fields{"status": status, "body": errorBody}).Error("semaphore balance API error")

	if status == http.StatusTooManyRequests {
		retryAfter := s.resolveRetryAfter(retryHeader)

		if stale, ok := s.cache.WriteStaleFallback(retryAfter, staleBalanceNote); ok {
			// Availability beats freshness while the provider throttles.
			s.logger.Info("returning cached SMS balance due to semaphore rate limit")
			return &sms.Result{Status: http.StatusOK, Payload: stale}
		}

		payload := sms.ErrorPayload{
			Success:    false,
			Error:      errRateLimited,
			RetryAfter: retryAfter,
			Details:    errorBody,
		}
		s.cache.WriteError(payload, http.StatusTooManyRequests, time.Duration(retryAfter)*time.Second)
		return &sms.Result{Status: http.StatusTooManyRequests, Payload: &payload}
	}

	payload := sms.ErrorPayload{Success: false, Error: errorBody}
	s.cache.WriteError(payload, status, s.errorTTL())
	return &sms.Result{Status: status, Payload: &payload}
}

// resolveRetryAfter prefers the upstream header, falls back to the cache TTL
// (or 30s), and floors the hint at 5s so clients never busy-loop.
func (s *SMSService) resolveRetryAfter(header string) int {
	retryAfter := 0
	if header != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(header)); err == nil {
			retryAfter = parsed
		}
	}
	if retryAfter == 0 {
		if ttl := int(s.config.BalanceCacheTTL / time.Second); ttl > 0 {
			retryAfter = ttl
		} else {
			retryAfter = 30
		}
	}
	if retryAfter < 5 {
		retryAfter = 5
	}
	return retryAfter
}

// errorTTL bounds how long upstream failures are cached: between 5 and 30
// seconds when a cache TTL is configured, 10 seconds otherwise.
func (s *SMSService) errorTTL() time.Duration {
	ttl := int(s.config.BalanceCacheTTL / time.Second)
	if ttl <= 0 {
		return 10 * time.Second
	}
	if ttl > 30 {
		ttl = 30
	}
	if ttl < 5 {
		ttl = 5
	}
	return time.Duration(ttl) * time.Second
}

func (s *SMSService) maybeAlertLowBalance(payload *sms.BalancePayload) {
	if s.alerts == nil || s.config.LowBalanceThreshold <= 0 || payload.Balance == nil {
		return
	}
	balance := *payload.Balance
	if balance >= s.config.LowBalanceThreshold {
		return
	}

	s.alertMu.Lock()
	now := s.clock()
	if !s.lastAlertAt.IsZero() && now.Sub(s.lastAlertAt) < s.config.AlertMinInterval {
		s.alertMu.Unlock()
		return
	}
	s.lastAlertAt = now
	s.alertMu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.alerts.SendLowBalanceAlert(ctx, balance); err != nil {
			s.logger.WithError(err).Error("failed to send low balance alert")
		}
	}()
}

// decodeBodyOrWrap decodes a JSON body, wrapping undecodable text so error
// payloads always have a JSON shape.
func decodeBodyOrWrap(body []byte) any {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return map[string]any{"error": string(body)}
	}
	return decoded
}

// isRateLimitPayload flattens an arbitrarily shaped decoded body to text and
// scans for a throttling signal. Last-resort heuristic, used only after the
// Retry-After header check.
func isRateLimitPayload(payload any) bool {
	return strings.Contains(strings.ToLower(flattenToText(payload)), "rate limit")
}

func flattenToText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		var b strings.Builder
		for key, value := range t {
			b.WriteString(key)
			b.WriteString(" ")
			b.WriteString(flattenToText(value))
			b.WriteString(" ")
		}
		return b.String()
	case []any:
		var b strings.Builder
		for _, item := range t {
			b.WriteString(flattenToText(item))
			b.WriteString(" ")
		}
		return b.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func failure(status int, message string) *sms.Result {
	return &sms.Result{Status: status, Payload: &sms.ErrorPayload{Success: false, Error: message}}
}
