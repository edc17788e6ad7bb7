package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope wraps every /api response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Fail renders a failed envelope. Used by the central error handler.
func Fail(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: false, Message: message, Data: data})
}
