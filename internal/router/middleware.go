package router

import (
	stderrors "errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"brotos/internal/auth"
	"brotos/internal/errors"
	"brotos/internal/handler"
	"brotos/internal/service"
)

// SessionMiddleware resolves the access token's session to the consultant cached in it.
// Tokens of a logged-out or expired session are rejected even before they expire.
func SessionMiddleware(sessions service.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.TokenType != auth.TokenTypeAccess || claims.SessionID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "access token required",
					Code:  "UNAUTHORIZED",
				})
			}

			consultant, err := sessions.Current(c.Request().Context(), claims.SessionID)
			if err != nil {
				httpErr := errors.MapErrorToHTTP(err)
				he := echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
				he.Internal = err
				return he
			}

			c.Set(handler.ContextKeyActor, consultant)
			c.Set(handler.ContextKeySessionID, claims.SessionID)
			return next(c)
		}
	}
}

// RequestLogger logs one line per request through zerolog.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= http.StatusInternalServerError {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// ErrorHandler renders errors as ErrorResponse JSON. Plain domain errors are mapped to their
// status, and anything ending in a 5xx is reported to Sentry.
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !stderrors.As(err, &he) {
			httpErr := errors.MapErrorToHTTP(err)
			he = echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			he.Internal = err
		}

		if he.Code >= http.StatusInternalServerError {
			cause := err
			if he.Internal != nil {
				cause = he.Internal
			}
			sentry.CaptureException(cause)
			log.Error().Err(cause).Str("uri", c.Request().RequestURI).Msg("request failed")
		}

		body := he.Message
		switch msg := he.Message.(type) {
		case errors.ErrorResponse:
		case string:
			body = errors.ErrorResponse{Error: msg, Code: http.StatusText(he.Code)}
		default:
			body = errors.ErrorResponse{Error: http.StatusText(he.Code), Code: http.StatusText(he.Code)}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}
