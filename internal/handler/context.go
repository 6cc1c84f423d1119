package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"brotos/internal/errors"
	"brotos/internal/model"
)

// Context keys set by the session middleware.
const (
	ContextKeyActor     = "actor"
	ContextKeySessionID = "session_id"
)

// actor returns the authenticated consultant stored by the session middleware.
func actor(c echo.Context) (*model.Consultant, error) {
	a, ok := c.Get(ContextKeyActor).(*model.Consultant)
	if !ok || a == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: errors.ErrSessionNotFound.Error(),
			Code:  "SESSION_EXPIRED",
		})
	}
	return a, nil
}

func sessionID(c echo.Context) string {
	sid, _ := c.Get(ContextKeySessionID).(string)
	return sid
}

// fail converts a service error to an echo error carrying ErrorResponse. Unmapped errors keep
// the original as Internal so the error handler can log and report it.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	he := echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	if httpErr.StatusCode >= http.StatusInternalServerError {
		he.Internal = err
	}
	return he
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  "BAD_REQUEST",
	})
}

func invalid(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}
