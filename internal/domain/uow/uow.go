package uow

import (
	"context"

	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/offer"
	"p2p-lending-backend/internal/domain/payment"
	"p2p-lending-backend/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Users    user.Repository
	Loans    loan.Repository
	Offers   offer.Repository
	Payments payment.Repository
}

type UnitOfWork interface {
	// lock the loan row first, then pass it in; everything fn writes commits or rolls back together
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
