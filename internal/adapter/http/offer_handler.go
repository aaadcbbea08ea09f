package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/usecase/offer"
)

type OfferHandler struct{ uc *offer.Usecase }

func NewOfferHandler(uc *offer.Usecase) *OfferHandler { return &OfferHandler{uc: uc} }

type submitOfferReq struct {
	LoanID       string          `json:"loan_id"       validate:"required,hex32"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"required,gt=0,lte=999.99,dec2"`
}

func (h *OfferHandler) SubmitOffer(c echo.Context) error {
	var req submitOfferReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Submit(c.Request().Context(), middleware.Caller(c), offer.SubmitOfferInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}
