package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"brotos/internal/service"
)

// StatsHandler serves the dashboard counters.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats godoc
// @Summary Roster statistics
// @Description Totals, active count, distinct teams and records created this calendar month.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Stats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /stats [get]
func (h *StatsHandler) GetStats(c echo.Context) error {
	if _, err := actor(c); err != nil {
		return err
	}
	stats, err := h.statsService.Stats(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, stats)
}
