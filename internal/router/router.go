package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"brotos/internal/auth"
	"brotos/internal/errors"
	"brotos/internal/handler"
	"brotos/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	log zerolog.Logger,
	jwtService *auth.JWTService,
	sessionService service.SessionService,
	authHandler *handler.AuthHandler,
	consultantHandler *handler.ConsultantHandler,
	statsHandler *handler.StatsHandler,
	seedHandler *handler.SeedHandler,
) {
	e.HTTPErrorHandler = ErrorHandler(log)
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(log))
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Secured routes (require a valid access token bound to a live session)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:    jwtService.Secret(),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		TokenLookup:   "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(echo.Context) jwt.Claims { return new(auth.Claims) },
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "missing or invalid access token",
				Code:  "UNAUTHORIZED",
			})
		},
	}), SessionMiddleware(sessionService))

	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/me", authHandler.Me)

	// Consultant routes
	secured.GET("/consultants", consultantHandler.ListConsultants)
	secured.POST("/consultants", consultantHandler.CreateConsultant)
	secured.GET("/consultants/export", consultantHandler.ExportConsultants)
	secured.POST("/consultants/import", seedHandler.ImportConsultants)
	secured.GET("/consultants/:id", consultantHandler.GetConsultant)
	secured.PATCH("/consultants/:id", consultantHandler.UpdateConsultant)
	secured.POST("/consultants/:id/deactivate", consultantHandler.DeactivateConsultant)
	secured.DELETE("/consultants/:id", consultantHandler.DeleteConsultant)
	secured.GET("/team", consultantHandler.ListTeam)

	// Stats routes
	secured.GET("/stats", statsHandler.GetStats)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
