package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"brotos/internal/model"
	"brotos/internal/service"
)

// ConsultantHandler bundles the roster endpoints.
type ConsultantHandler struct {
	svc service.ConsultantService
}

// NewConsultantHandler creates a consultant handler.
func NewConsultantHandler(svc service.ConsultantService) *ConsultantHandler {
	return &ConsultantHandler{svc: svc}
}

// ListConsultants godoc
// @Summary List visible consultants
// @Description Admins see everyone, leaders their direct recruits, consultants themselves.
// @Tags consultants
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive match on name, city or email"
// @Success 200 {array} model.Consultant
// @Failure 401 {object} errors.ErrorResponse
// @Router /consultants [get]
func (h *ConsultantHandler) ListConsultants(c echo.Context) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	list, err := h.svc.Search(c.Request().Context(), me, c.QueryParam("q"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, list)
}

// ListTeam godoc
// @Summary List my direct recruits
// @Tags consultants
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive match on name, city or email"
// @Success 200 {array} model.Consultant
// @Failure 401 {object} errors.ErrorResponse
// @Router /team [get]
func (h *ConsultantHandler) ListTeam(c echo.Context) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	team, err := h.svc.ListTeam(c.Request().Context(), me, c.QueryParam("q"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, team)
}

// GetConsultant godoc
// @Summary Get consultant by id
// @Tags consultants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Consultant ID"
// @Success 200 {object} model.Consultant
// @Failure 404 {object} errors.ErrorResponse
// @Router /consultants/{id} [get]
func (h *ConsultantHandler) GetConsultant(c echo.Context) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	found, err := h.svc.Get(c.Request().Context(), me, c.Param("id"))
	if err != nil {
		return fail(err)
	}
	setETag(c, found)
	return c.JSON(http.StatusOK, found)
}

// CreateConsultant godoc
// @Summary Create consultant
// @Tags consultants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param consultant body model.ConsultantFields true "Consultant payload"
// @Success 201 {object} model.Consultant
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /consultants [post]
func (h *ConsultantHandler) CreateConsultant(c echo.Context) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	var fields model.ConsultantFields
	if err := c.Bind(&fields); err != nil {
		return badRequest("invalid request body")
	}
	created, err := h.svc.Create(c.Request().Context(), me, fields)
	if err != nil {
		return fail(err)
	}
	setETag(c, created)
	return c.JSON(http.StatusCreated, created)
}

// UpdateConsultant godoc
// @Summary Update consultant
// @Description Partial update. Send the version last read in If-Match to reject concurrent edits.
// @Tags consultants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Consultant ID"
// @Param If-Match header string false "Expected version"
// @Param patch body model.ConsultantPatch true "Fields to change"
// @Success 200 {object} model.Consultant
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /consultants/{id} [patch]
func (h *ConsultantHandler) UpdateConsultant(c echo.Context) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	version, err := expectedVersion(c.Request().Header.Get("If-Match"))
	if err != nil {
		return badRequest("invalid If-Match header")
	}
	var patch model.ConsultantPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest("invalid request body")
	}
	updated, err := h.svc.Update(c.Request().Context(), me, c.Param("id"), patch, version)
	if err != nil {
		return fail(err)
	}
	setETag(c, updated)
	return c.JSON(http.StatusOK, updated)
}

// DeactivateConsultant godoc
// @Summary Deactivate consultant
// @Description Soft delete. The record stays in the network but can no longer log in.
// @Tags consultants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Consultant ID"
// @Success 200 {object} model.Consultant
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /consultants/{id}/deactivate [post]
func (h *ConsultantHandler) DeactivateConsultant(c echo.Context) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	deactivated, err := h.svc.Deactivate(c.Request().Context(), me, c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, deactivated)
}

// DeleteConsultant godoc
// @Summary Purge consultant
// @Description Irreversible. Direct recruits move to the purged record's recruiter.
// @Tags consultants
// @Security BearerAuth
// @Param id path string true "Consultant ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /consultants/{id} [delete]
func (h *ConsultantHandler) DeleteConsultant(c echo.Context) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), me, c.Param("id")); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportConsultants godoc
// @Summary Export the roster
// @Tags consultants
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Consultant
// @Failure 403 {object} errors.ErrorResponse
// @Router /consultants/export [get]
func (h *ConsultantHandler) ExportConsultants(c echo.Context) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	roster, err := h.svc.Export(c.Request().Context(), me)
	if err != nil {
		return fail(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="consultants.json"`)
	return c.JSON(http.StatusOK, roster)
}

// expectedVersion parses an If-Match value such as `3`, `"3"` or `W/"3"`. Empty means no
// precondition.
func expectedVersion(header string) (uint, error) {
	v := strings.TrimSpace(header)
	if v == "" || v == "*" {
		return 0, nil
	}
	v = strings.TrimPrefix(v, "W/")
	v = strings.Trim(v, `"`)
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

func setETag(c echo.Context, consultant *model.Consultant) {
	c.Response().Header().Set("ETag", `"`+strconv.FormatUint(uint64(consultant.Version), 10)+`"`)
}
