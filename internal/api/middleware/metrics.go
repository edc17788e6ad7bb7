package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookingweb/booking-api/internal/api/metrics"
)

// Metrics records request counts and latency per route template. Errors not
// yet rendered by an inner middleware are rendered here so the recorded
// status is the one sent.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
