package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/prediction"
)

// Prediction handlers
func (s *Server) getTodayPredictions(c echo.Context) error {
	predictions, err := s.predictionSvc.ListByDate(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load predictions")
	}
	return c.JSON(http.StatusOK, predictions)
}

func (s *Server) getAllPredictions(c echo.Context) error {
	predictions, err := s.predictionSvc.ListAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load predictions")
	}
	return c.JSON(http.StatusOK, predictions)
}

func (s *Server) getPredictionsByDate(c echo.Context) error {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error": "Invalid date format. Use YYYY-MM-DD",
		})
	}

	predictions, err := s.predictionSvc.ListByDate(c.Request().Context(), date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load predictions")
	}
	return c.JSON(http.StatusOK, predictions)
}

func (s *Server) sendPredictions(c echo.Context) error {
	sent, recipients, err := s.predictionSvc.SendToday(c.Request().Context())
	if err != nil {
		if errors.Is(err, prediction.ErrNoUnsentToday) {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
		}
		s.logger.WithError(err).Error("failed to send predictions")
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "failed to send predictions"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully sent %d predictions to %d users", sent, recipients),
	})
}

func (s *Server) generatePredictions(c echo.Context) error {
	var req prediction.GenerateRequest
	if err := c.Bind(&req); err != nil {
		req = prediction.GenerateRequest{}
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"error": "Invalid date format. Use YYYY-MM-DD",
			})
		}
		date = parsed
	}

	count, err := s.predictionSvc.Generate(c.Request().Context(), date)
	if err != nil {
		if errors.Is(err, prediction.ErrNoStops) {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
		}
		s.logger.WithError(err).Error("failed to generate predictions")
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "failed to generate predictions"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"count":   count,
		"message": fmt.Sprintf("Generated %d predictions for %s", count, date.Format("2006-01-02")),
	})
}
