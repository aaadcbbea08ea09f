// Package ledger holds the only operations allowed to move user balances.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"p2p-lending-backend/internal/domain/money"
	"p2p-lending-backend/internal/domain/user"
)

var (
	ErrInsufficientBalance = errors.New("insufficient lender balance")
	ErrInvalidAmount       = errors.New("ledger amount must be positive")
)

// Accounts is the per-account atomic increment/decrement primitive the ledger
// runs on. user.Repository satisfies it.
type Accounts interface {
	Debit(ctx context.Context, id uint64, amount money.Money) error
	Credit(ctx context.Context, id uint64, amount money.Money) error
}

// DebitForFunding takes principal+fee from the lender. The borrower is not
// credited: funding is modelled as cash leaving the lender only.
func DebitForFunding(ctx context.Context, accts Accounts, lender *user.User, amount money.Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if lender.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	if err := accts.Debit(ctx, lender.ID, amount); err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			return err
		}
		return fmt.Errorf("debit lender %s: %w", lender.UserID, err)
	}
	lender.Balance = lender.Balance.Sub(amount)
	return nil
}

// CreditFromPayment pays one installment to the lender. No upper bound applies
// and fees are never returned.
func CreditFromPayment(ctx context.Context, accts Accounts, lenderID uint64, amount money.Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := accts.Credit(ctx, lenderID, amount); err != nil {
		return fmt.Errorf("credit lender %d: %w", lenderID, err)
	}
	return nil
}
