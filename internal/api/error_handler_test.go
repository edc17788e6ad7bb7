package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

func TestHTTPErrorHandler_Taxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"auth failed", domain.ErrAuthenticationFailed, http.StatusUnauthorized, "invalid email or password"},
		{"disabled", domain.ErrAccountDisabled, http.StatusUnauthorized, "account is disabled"},
		{"invalid token wrapped", fmt.Errorf("%w: signature is invalid", domain.ErrInvalidToken), http.StatusUnauthorized, "invalid token"},
		{"expired", domain.ErrExpiredToken, http.StatusUnauthorized, "token has expired"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{"denied", domain.ErrAccessDenied, http.StatusForbidden, "access denied"},
		{"not found", domain.ErrAccountNotFound, http.StatusNotFound, "account not found"},
		{"duplicate", domain.ErrDuplicateAccount, http.StatusConflict, "email is already registered"},
		{"invalid role", domain.ErrInvalidRole, http.StatusBadRequest, "invalid role"},
		{"throttled", domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many failed login attempts"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid request body"), http.StatusBadRequest, "invalid request body"},
		{"unexpected", errors.New("mongo: connection pool exhausted"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["success"] != false || resp["message"] != tt.wantMsg {
				t.Fatalf("unexpected envelope: %+v", resp)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationFields(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	err := &domain.ValidationError{Fields: map[string]string{"email": "email must be a valid email"}}
	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Success || resp.Message != "invalid request data" || resp.Data["email"] == "" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrAccessDenied, c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response must not be rewritten: %d %q", rec.Code, rec.Body.String())
	}
}
