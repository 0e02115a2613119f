package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
)

// RateLimitMiddleware guards the SMS endpoints with per-client-IP admission
// control so a misbehaving dashboard tab cannot burn provider credits.
type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiter
	logger      *logrus.Logger
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiter, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, logger: logger}
}

func (r *RateLimitMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if r.rateLimiter.Allow(key) {
				return next(c)
			}

			retryAfter := r.rateLimiter.RetryAfter(key)
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"client_ip": key, "retry_after": retryAfter}).Warn("rate limit exceeded")
			}
			c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"success":     false,
				"error":       fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", retryAfter),
				"retry_after": retryAfter,
			})
		}
	}
}
