package offer

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("offer not found")
	ErrInvalidRate = errors.New("interest rate must be positive")
)

// Offer is a lender's proposed annual rate (percent) for a loan.
type Offer struct {
	ID           uint64          `gorm:"primaryKey;column:id;autoIncrement" json:"-"`
	OfferID      string          `gorm:"column:offer_id;size:32;not null;uniqueIndex:ux_offers_offer_id" json:"offer_id"`
	LoanID       uint64          `gorm:"column:loan_id;not null;index:idx_offers_loan" json:"-"`
	LenderID     uint64          `gorm:"column:lender_id;not null;index:idx_offers_lender" json:"-"`
	InterestRate decimal.Decimal `gorm:"column:interest_rate;type:decimal(5,2);not null" json:"interest_rate"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Offer) TableName() string { return "loan_offers" }
