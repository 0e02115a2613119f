package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/miss-blue/JeepNiBackend/internal/core/domain/subscriber"
)

// Subscriber handlers (the dashboard calls these "users")
func (s *Server) getUsers(c echo.Context) error {
	subscribers, err := s.subscriberSvc.ListActive(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load users")
	}
	return c.JSON(http.StatusOK, subscribers)
}

func (s *Server) addUser(c echo.Context) error {
	var req subscriber.AddRequest
	if err := c.Bind(&req); err != nil {
		req = subscriber.AddRequest{}
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Phone number is required"})
	}

	sub, reactivated, err := s.subscriberSvc.Add(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, subscriber.ErrAlreadyExists) {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "User already exists"})
		}
		s.logger.WithError(err).Error("failed to add subscriber")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to add user")
	}

	resp := map[string]any{"success": true, "user": sub}
	if reactivated {
		resp["message"] = "User reactivated"
	}
	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}

	if err := s.subscriberSvc.Deactivate(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "User deactivated successfully",
	})
}
