package uowmock

import (
	"context"
	"errors"

	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed uow.UnitOfWork. Unset functions return errUnimplemented.
type UoW struct {
	WithinLoanTxFn func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error
}

// Passthrough runs callbacks directly against repos, with l as the locked loan.
// Callback errors are returned unchanged, as a rolled-back tx would.
func Passthrough(repos uow.Repos, l *loan.Loan) *UoW {
	return &UoW{
		WithinLoanTxFn: func(_ context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
			if l == nil || l.LoanID != loanID {
				return loan.ErrNotFound
			}
			return fn(repos, l)
		},
	}
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanID, fn)
	}
	return errUnimplemented
}
