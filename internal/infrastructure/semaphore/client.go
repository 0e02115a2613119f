package semaphore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var upstreamRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "semaphore_upstream_requests_total",
		Help: "Semaphore API calls by endpoint and outcome status",
	},
	[]string{"endpoint", "status"},
)

func init() {
	prometheus.MustRegister(upstreamRequestsTotal)
}

// Config holds connection settings for the Semaphore API.
type Config struct {
	APIKey      string
	MessagesURL string
	AccountURL  string
	Timeout     time.Duration
}

// Client is the HTTP client for the Semaphore messaging API. The request
// timeout doubles as the gateway's upstream deadline; a timed-out call is
// reported as a transport failure, never retried here.
type Client struct {
	config *Config
	http   *http.Client
	logger *logrus.Logger
}

func NewClient(config *Config, logger *logrus.Logger) *Client {
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

var _ ports.SMSProvider = (*Client)(nil)

// SendMessage posts one outbound SMS as the form-encoded payload Semaphore
// expects. senderName must already be truncated to the provider limit.
func (c *Client) SendMessage(ctx context.Context, number, message, senderName string) (*ports.ProviderResponse, error) {
	form := url.Values{}
	form.Set("apikey", c.config.APIKey)
	form.Set("number", number)
	form.Set("message", message)
	form.Set("sendername", senderName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.MessagesURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, "messages")
}

// GetAccount fetches the account record, balance included.
func (c *Client) GetAccount(ctx context.Context) (*ports.ProviderResponse, error) {
	accountURL := c.config.AccountURL + "?apikey=" + url.QueryEscape(c.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, accountURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build account request: %w", err)
	}

	return c.do(req, "account")
}

func (c *Client) do(req *http.Request, endpoint string) (*ports.ProviderResponse, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, fmt.Errorf("semaphore %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, fmt.Errorf("failed to read semaphore %s response: %w", endpoint, err)
	}

	upstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.WithFields(logrus.Fields{"endpoint": endpoint, "status": resp.StatusCode}).Debug("semaphore API call completed")

	return &ports.ProviderResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header,
	}, nil
}
