package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/stop"
)

// Stop handlers
func (s *Server) getStops(c echo.Context) error {
	stops, err := s.stopService.ListStops(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load stops")
	}
	return c.JSON(http.StatusOK, stops)
}

func (s *Server) createStop(c echo.Context) error {
	var req stop.CreateStopRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Stop name is required"})
	}

	created, err := s.stopService.CreateStop(c.Request().Context(), &req)
	if err != nil {
		s.logger.WithError(err).Error("failed to create stop")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create stop")
	}
	return c.JSON(http.StatusCreated, created)
}
