package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// getModelMetrics returns the active forecasting model's stats, or an empty
// object when no model has been promoted yet.
func (s *Server) getModelMetrics(c echo.Context) error {
	metrics, err := s.modelSvc.GetActive(c.Request().Context())
	if err != nil || metrics == nil {
		return c.JSON(http.StatusOK, map[string]any{})
	}
	return c.JSON(http.StatusOK, metrics)
}
