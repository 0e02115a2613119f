package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// dashboardSummary backs the dashboard landing view with today's forecasts
// plus the headline counts. Partial failures degrade to empty sections so a
// slow datastore never blanks the whole page.
func (s *Server) dashboardSummary(c echo.Context) error {
	ctx := c.Request().Context()
	today := time.Now().UTC()

	summary := map[string]any{
		"service": "jeepni-backend",
		"today":   today.Format("2006-01-02"),
	}

	if predictions, err := s.predictionSvc.ListByDate(ctx, today); err == nil {
		summary["predictions"] = predictions
		sent := 0
		for _, p := range predictions {
			if p.IsSent {
				sent++
			}
		}
		summary["sent_count"] = sent
	} else {
		summary["predictions"] = []any{}
		summary["sent_count"] = 0
	}

	if count, err := s.subscriberSvc.CountActive(ctx); err == nil {
		summary["users_count"] = count
	} else {
		summary["users_count"] = 0
	}

	if metrics, err := s.modelSvc.GetActive(ctx); err == nil && metrics != nil {
		summary["model_metrics"] = metrics
	} else {
		summary["model_metrics"] = map[string]any{}
	}

	return c.JSON(http.StatusOK, summary)
}
