package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookingweb/booking-api/internal/api/metrics"
	"github.com/bookingweb/booking-api/internal/core/domain"
	"github.com/bookingweb/booking-api/internal/core/ports"
)

// TokenVerifier is the part of the token codec the gate needs.
type TokenVerifier interface {
	Parse(token string) (domain.Claims, error)
	IsValid(token, expectedSubject string, now time.Time) (bool, error)
}

// Auth resolves the bearer token to an enabled identity and attaches it to
// the context. Any failure ends the request with an error for the central
// error handler.
func Auth(tokens TokenVerifier, identities ports.IdentityLoader) echo.MiddlewareFunc {
	return authWithClock(tokens, identities, time.Now)
}

func authWithClock(tokens TokenVerifier, identities ports.IdentityLoader, now func() time.Time) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthGateTotal.WithLabelValues("missing").Inc()
				return domain.ErrUnauthenticated
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				metrics.AuthGateTotal.WithLabelValues("invalid").Inc()
				return err
			}

			at := now()
			if !at.Before(claims.ExpiresAt) {
				metrics.AuthGateTotal.WithLabelValues("expired").Inc()
				return domain.ErrExpiredToken
			}

			identity, err := identities.LoadForAuthentication(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrAccountNotFound) {
					metrics.AuthGateTotal.WithLabelValues("unknown_account").Inc()
					return domain.ErrUnauthenticated
				}
				return err
			}
			if !identity.Enabled {
				metrics.AuthGateTotal.WithLabelValues("disabled").Inc()
				return domain.ErrAccountDisabled
			}

			valid, err := tokens.IsValid(token, identity.Login, at)
			if err != nil {
				metrics.AuthGateTotal.WithLabelValues("invalid").Inc()
				return err
			}
			if !valid {
				metrics.AuthGateTotal.WithLabelValues("invalid").Inc()
				return domain.ErrInvalidToken
			}

			metrics.AuthGateTotal.WithLabelValues("ok").Inc()
			SetIdentity(c, identity)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
