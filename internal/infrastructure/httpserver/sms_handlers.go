package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/sms"
)

// SMS handlers. The service returns the status to serve together with the
// payload; upstream failures are response data here, never Go errors.
func (s *Server) sendSMS(c echo.Context) error {
	var req sms.SendRequest
	if err := c.Bind(&req); err != nil {
		// An unparseable body behaves like an empty one so the service can
		// answer with its own validation message.
		req = sms.SendRequest{}
	}

	result := s.smsService.SendMessage(c.Request().Context(), &req)
	return c.JSON(result.Status, result.Payload)
}

func (s *Server) getSMSBalance(c echo.Context) error {
	result := s.smsService.GetBalance(c.Request().Context())
	return c.JSON(result.Status, result.Payload)
}
