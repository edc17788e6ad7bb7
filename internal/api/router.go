package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/bookingweb/booking-api/docs"
	"github.com/bookingweb/booking-api/internal/api/handler"
	"github.com/bookingweb/booking-api/internal/api/middleware"
	"github.com/bookingweb/booking-api/internal/core/domain"
	"github.com/bookingweb/booking-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	AuthService    ports.AuthService
	AccountService ports.AccountService
	Tokens         middleware.TokenVerifier
	Identities     ports.IdentityLoader
	// Health lists the dependencies pinged by /health/ready.
	Health map[string]handler.Pinger

	// RateLimitRPS and RateLimitBurst bound requests per client IP on /api/auth.
	RateLimitRPS   float64
	RateLimitBurst int
	AllowOrigins   []string

	Log zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	// Metrics wraps the request logger, which renders handler errors itself
	// and passes them on, so both see the final status.
	e.Use(middleware.Metrics())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.AllowOrigins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	accountHandler := handler.NewAccountHandler(d.AccountService)
	healthHandler := handler.NewHealthHandler(d.Health)
	gate := middleware.Auth(d.Tokens, d.Identities)

	// --- Auth routes (rate limited per IP) ---
	auth := e.Group("/api/auth", authRateLimiter(d.RateLimitRPS, d.RateLimitBurst))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", accountHandler.Me, gate)

	// --- Admin routes ---
	admin := e.Group("/api/admin", gate, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/accounts/:id", accountHandler.Get)
	admin.PATCH("/accounts/:id/status", accountHandler.SetStatus)
	admin.DELETE("/accounts/:id", accountHandler.Delete)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func authRateLimiter(rps float64, burst int) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
	})
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error()
			}
			if v.Error != nil {
				event = event.Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
