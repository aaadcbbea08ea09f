package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/domain/money"
	"p2p-lending-backend/internal/usecase/lifecycle"
	"p2p-lending-backend/pkg/id"
)

type LifecycleHandler struct{ uc *lifecycle.Usecase }

func NewLifecycleHandler(uc *lifecycle.Usecase) *LifecycleHandler {
	return &LifecycleHandler{uc: uc}
}

type acceptOfferReq struct {
	OfferID string `json:"offer_id" validate:"required,hex32"`
}

type makePaymentReq struct {
	Amount money.Money `json:"amount" validate:"required,gt=0,dec2"`
}

// AcceptOffer funds the loan in the path with the chosen offer.
func (h *LifecycleHandler) AcceptOffer(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan not found"})
	}
	var req acceptOfferReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.AcceptOffer(c.Request().Context(), middleware.Caller(c), lifecycle.AcceptOfferInput{
		LoanID:  loanID,
		OfferID: req.OfferID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// MakePayment settles the earliest pending installment of the loan in the path.
func (h *LifecycleHandler) MakePayment(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan not found"})
	}
	var req makePaymentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.uc.MakePayment(c.Request().Context(), middleware.Caller(c), lifecycle.MakePaymentInput{
		LoanID: loanID,
		Amount: req.Amount,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
