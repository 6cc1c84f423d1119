package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"brotos/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	sessionService service.SessionService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessionService service.SessionService) *AuthHandler {
	return &AuthHandler{sessionService: sessionService}
}

// LoginRequest represents a login request. The consultant id is the only credential.
type LoginRequest struct {
	ID string `json:"id" validate:"required"`
}

// RefreshRequest represents a session restore request.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Login godoc
// @Summary Login with a consultant id
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Consultant id"
// @Success 200 {object} service.LoginResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return invalid(err)
	}

	result, err := h.sessionService.Login(c.Request().Context(), c.RealIP(), req.ID)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, result)
}

// Refresh godoc
// @Summary Restore a session and issue a new access token
// @Description Re-checks that the consultant still exists and is active.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} service.LoginResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return invalid(err)
	}

	result, err := h.sessionService.Restore(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, result)
}

// Logout godoc
// @Summary Logout
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessionService.Logout(c.Request().Context(), sessionID(c)); err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// Me godoc
// @Summary Current consultant
// @Description Returns the record cached in the session.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Consultant
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	me, err := actor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, me)
}
