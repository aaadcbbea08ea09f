package payment

import (
	"errors"
	"time"

	"p2p-lending-backend/internal/domain/money"
)

var (
	ErrNotFound            = errors.New("payment not found")
	ErrInsufficientPayment = errors.New("payment amount is less than the installment due")
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Payment is one scheduled installment. Amount is fixed at creation.
type Payment struct {
	ID        uint64      `gorm:"primaryKey;column:id;autoIncrement" json:"-"`
	PaymentID string      `gorm:"column:payment_id;size:32;not null;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	LoanID    uint64      `gorm:"column:loan_id;not null;index:idx_payments_loan_status_due,priority:1" json:"-"`
	Status    Status      `gorm:"column:status;type:varchar(16);not null;index:idx_payments_loan_status_due,priority:2" json:"status"`
	DueDate   time.Time   `gorm:"column:due_date;type:date;not null;index:idx_payments_loan_status_due,priority:3" json:"due_date"`
	Amount    money.Money `gorm:"column:amount;not null" json:"amount"`
	PaidAt    *time.Time  `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) IsPaid() bool { return p.Status == StatusPaid }

// Covers reports whether a submitted amount settles this installment.
func (p *Payment) Covers(submitted money.Money) bool {
	return submitted.GreaterThanOrEqual(p.Amount)
}
