package loan

import (
	"time"

	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/money"
	"p2p-lending-backend/internal/domain/offer"
	"p2p-lending-backend/internal/domain/payment"
	"p2p-lending-backend/internal/domain/user"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	Amount     money.Money
	TermMonths int // 0 means loan.DefaultTermMonths
}

type LoanDTO struct {
	LoanID             string           `json:"loan_id"`
	BorrowerID         string           `json:"borrower_id,omitempty"`
	LenderID           string           `json:"lender_id,omitempty"`
	Amount             money.Money      `json:"amount"`
	TermMonths         int              `json:"term_months"`
	AnnualInterestRate *decimal.Decimal `json:"annual_interest_rate"`
	OriginationFee     money.Money      `json:"origination_fee"`
	Status             string           `json:"status"`
	CreatedAt          time.Time        `json:"created_at"`
	FundedAt           *time.Time       `json:"funded_at"`
}

type OfferDTO struct {
	OfferID      string          `json:"offer_id"`
	LoanID       string          `json:"loan_id"`
	LenderID     string          `json:"lender_id,omitempty"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	CreatedAt    time.Time       `json:"created_at"`
}

type PaymentDTO struct {
	PaymentID string      `json:"payment_id"`
	DueDate   string      `json:"due_date"`
	Amount    money.Money `json:"amount"`
	Status    string      `json:"status"`
	PaidAt    *time.Time  `json:"paid_at,omitempty"`
}

type LoanDetailDTO struct {
	LoanDTO
	Offers   []OfferDTO   `json:"offers"`
	Payments []PaymentDTO `json:"payments"`
}

const dateLayout = "2006-01-02"

// NewLoanDTO renders l; borrower and lender may be nil when unknown.
func NewLoanDTO(l *loan.Loan, borrower, lender *user.User) LoanDTO {
	dto := LoanDTO{
		LoanID:         l.LoanID,
		Amount:         l.Amount,
		TermMonths:     l.TermMonths,
		OriginationFee: l.OriginationFee,
		Status:         string(l.Status),
		CreatedAt:      l.CreatedAt,
		FundedAt:       l.FundedAt,
	}
	if l.AnnualInterestRate.Valid {
		rate := l.AnnualInterestRate.Decimal
		dto.AnnualInterestRate = &rate
	}
	if borrower != nil {
		dto.BorrowerID = borrower.UserID
	}
	if lender != nil {
		dto.LenderID = lender.UserID
	}
	return dto
}

func NewOfferDTO(o *offer.Offer, loanID string, lender *user.User) OfferDTO {
	dto := OfferDTO{
		OfferID:      o.OfferID,
		LoanID:       loanID,
		InterestRate: o.InterestRate,
		CreatedAt:    o.CreatedAt,
	}
	if lender != nil {
		dto.LenderID = lender.UserID
	}
	return dto
}

func NewPaymentDTO(p *payment.Payment) PaymentDTO {
	return PaymentDTO{
		PaymentID: p.PaymentID,
		DueDate:   p.DueDate.UTC().Format(dateLayout),
		Amount:    p.Amount,
		Status:    string(p.Status),
		PaidAt:    p.PaidAt,
	}
}
