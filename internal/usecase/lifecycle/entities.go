package lifecycle

import (
	"p2p-lending-backend/internal/domain/money"
	loanuc "p2p-lending-backend/internal/usecase/loan"
)

const (
	MsgPaymentSuccessful    = "payment successful"
	MsgAllPaymentsCompleted = "all payments completed"
)

type AcceptOfferInput struct {
	LoanID  string
	OfferID string
}

type MakePaymentInput struct {
	LoanID string
	Amount money.Money
}

// PaymentResultDTO: Payment is nil when there was nothing left to pay.
type PaymentResultDTO struct {
	LoanID        string             `json:"loan_id"`
	LoanStatus    string             `json:"loan_status"`
	PaymentStatus string             `json:"payment_status,omitempty"`
	Payment       *loanuc.PaymentDTO `json:"payment,omitempty"`
	Message       string             `json:"message"`
}
