package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/domain/money"
	"p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/pkg/id"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	Amount     money.Money `json:"amount"      validate:"required,gt=0,lte=1000000000000,dec2"`
	TermMonths int         `json:"term_months" validate:"gte=0,lte=360"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), middleware.Caller(c), loan.CreateLoanInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) List(c echo.Context) error {
	loans, err := h.uc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": loans})
}

func (h *LoanHandler) ListOpen(c echo.Context) error {
	loans, err := h.uc.ListOpen(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": loans})
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan not found"})
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
