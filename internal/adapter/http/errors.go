package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"p2p-lending-backend/internal/domain/amortization"
	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/offer"
	"p2p-lending-backend/internal/domain/payment"
	"p2p-lending-backend/internal/domain/user"
)

// statusFor maps domain errors to HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, user.ErrForbiddenRole):
		return http.StatusForbidden
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, offer.ErrNotFound),
		errors.Is(err, payment.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loan.ErrNotPending),
		errors.Is(err, loan.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, payment.ErrInsufficientPayment),
		errors.Is(err, amortization.ErrInvalidScheduleParameters),
		errors.Is(err, loan.ErrInvalidInput),
		errors.Is(err, loan.ErrInvalidFunding),
		errors.Is(err, offer.ErrInvalidRate):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondError writes err as an ErrorResponse. Internal details never leak on 500.
func respondError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "err", err)
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

// bindAndValidate binds the JSON body into req and runs the struct validator.
// It writes the 400/422 response itself and reports whether the handler may continue.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
