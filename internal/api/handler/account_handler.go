package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bookingweb/booking-api/internal/core/domain"
	"github.com/bookingweb/booking-api/internal/core/ports"
)

type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type setStatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// Me returns the caller's own account.
//
// @Summary      Current account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=domain.UserView}
// @Failure      401  {object}  Envelope
// @Router       /api/auth/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	account, err := h.accounts.Get(c.Request().Context(), identity.AccountID)
	if err != nil {
		return err
	}
	return respondOK(c, "ok", domain.NewUserView(account))
}

// Get returns any live account. Admin only.
//
// @Summary      Get account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  Envelope{data=domain.UserView}
// @Failure      401  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/admin/accounts/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	account, err := h.accounts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respondOK(c, "ok", domain.NewUserView(account))
}

// SetStatus activates or deactivates an account. Admin only.
//
// @Summary      Activate or deactivate account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "Account ID"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      200   {object}  Envelope{data=domain.UserView}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /api/admin/accounts/{id}/status [patch]
func (h *AccountHandler) SetStatus(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.accounts.SetActive(c.Request().Context(), id, *req.Active)
	if err != nil {
		return err
	}
	return respondOK(c, "account status updated", domain.NewUserView(account))
}

// Delete soft-deletes an account. Admin only.
//
// @Summary      Delete account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/admin/accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	if err := h.accounts.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respondOK(c, "account deleted", nil)
}

func accountID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid account id")
	}
	return id, nil
}
