package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookingweb/booking-api/internal/api/handler"
	"github.com/bookingweb/booking-api/internal/core/domain"
)

// sentinelStatus is checked in order; the sentinel's own message is sent so
// wrapping context never reaches the client.
var sentinelStatus = []struct {
	err  error
	code int
}{
	{domain.ErrAuthenticationFailed, http.StatusUnauthorized},
	{domain.ErrAccountDisabled, http.StatusUnauthorized},
	{domain.ErrExpiredToken, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrAccessDenied, http.StatusForbidden},
	{domain.ErrAccountNotFound, http.StatusNotFound},
	{domain.ErrDuplicateAccount, http.StatusConflict},
	{domain.ErrInvalidRole, http.StatusBadRequest},
	{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
}

// NewHTTPErrorHandler maps domain errors to statuses and renders the failed
// envelope. Unexpected errors are logged and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, data := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = handler.Fail(c, code, msg, data)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, any) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "invalid request data", ve.Fields
	}

	// Echo's own errors (bind failures, unknown routes, rate limiter).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	for _, m := range sentinelStatus {
		if errors.Is(err, m.err) {
			return m.code, m.err.Error(), nil
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error", nil
}
