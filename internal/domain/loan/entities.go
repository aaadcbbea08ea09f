package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"p2p-lending-backend/internal/domain/money"
)

var (
	ErrNotFound = errors.New("loan not found")
	// ErrNotPending guards double funding: the loan was funded by another acceptance.
	ErrNotPending        = errors.New("loan is no longer pending")
	ErrInvalidTransition = errors.New("invalid loan status transition")
	ErrInvalidInput      = errors.New("invalid loan input")
	ErrInvalidFunding    = errors.New("invalid funding parameters")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusFunded    Status = "funded"
	StatusCompleted Status = "completed"
)

// DefaultTermMonths applies when a request omits the term.
const DefaultTermMonths = 6

// DefaultOriginationFee is the platform fee charged to the lender on funding.
var DefaultOriginationFee = money.MustParse("3.75")

// MaxAmount caps a requested principal so principal plus fee always fits in cents.
var MaxAmount = money.FromInt(1_000_000_000_000)

// Loan: LenderID and AnnualInterestRate are set exactly once, when the loan is funded.
type Loan struct {
	ID                 uint64              `gorm:"primaryKey;column:id;autoIncrement" json:"-"`
	LoanID             string              `gorm:"column:loan_id;size:32;not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	BorrowerID         uint64              `gorm:"column:borrower_id;not null;index:idx_loans_borrower" json:"-"`
	LenderID           *uint64             `gorm:"column:lender_id;index:idx_loans_lender" json:"-"`
	Amount             money.Money         `gorm:"column:amount;not null" json:"amount"`
	TermMonths         int                 `gorm:"column:term_months;not null" json:"term_months"`
	AnnualInterestRate decimal.NullDecimal `gorm:"column:annual_interest_rate;type:decimal(5,2)" json:"annual_interest_rate"`
	OriginationFee     money.Money         `gorm:"column:origination_fee;not null" json:"origination_fee"`
	Status             Status              `gorm:"column:status;type:varchar(16);not null;index:idx_loans_status" json:"status"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	FundedAt           *time.Time          `gorm:"column:funded_at" json:"funded_at"`
}

func (Loan) TableName() string { return "loans" }

// TotalFunding is what the lender pays: principal plus origination fee.
func (l *Loan) TotalFunding() money.Money { return l.Amount.Add(l.OriginationFee) }

func (l *Loan) OwnedBy(borrowerID uint64) bool { return l.BorrowerID == borrowerID }

// Fund applies the pending → funded transition in memory.
func (l *Loan) Fund(lenderID uint64, rate decimal.Decimal, at time.Time) error {
	if l.Status != StatusPending || l.LenderID != nil {
		return ErrNotPending
	}
	if lenderID == 0 || !rate.IsPositive() {
		return ErrInvalidFunding
	}
	l.LenderID = &lenderID
	l.AnnualInterestRate = decimal.NewNullDecimal(rate)
	l.Status = StatusFunded
	fundedAt := at.UTC()
	l.FundedAt = &fundedAt
	return nil
}

// Complete applies funded → completed. Completed is terminal.
func (l *Loan) Complete() {
	if l.Status == StatusFunded {
		l.Status = StatusCompleted
	}
}
