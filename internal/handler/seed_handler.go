package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"brotos/internal/errors"
	"brotos/internal/model"
	"brotos/internal/service"
)

// SeedHandler loads exported rosters back in.
type SeedHandler struct {
	consultantService service.ConsultantService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(consultantService service.ConsultantService) *SeedHandler {
	return &SeedHandler{consultantService: consultantService}
}

// ImportConsultants godoc
// @Summary Import a roster export
// @Description Keeps ids and creation dates. Existing ids are skipped; unknown recruiters are dropped.
// @Tags seed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roster body []model.Consultant true "Exported roster"
// @Success 200 {object} service.ImportResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /consultants/import [post]
func (h *SeedHandler) ImportConsultants(c echo.Context) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	if me.Role != model.RoleAdmin {
		return fail(fmt.Errorf("import: %w", errors.ErrForbidden))
	}

	var roster []model.Consultant
	if err := (&echo.DefaultBinder{}).BindBody(c, &roster); err != nil {
		return badRequest("invalid roster")
	}

	result, err := h.consultantService.Import(c.Request().Context(), roster)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, result)
}
