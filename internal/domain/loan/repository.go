package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the rest of the transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// List returns every loan, newest first.
	List(ctx context.Context) ([]Loan, error)
	// ListOpen returns pending loans with no lender assigned, newest first.
	ListOpen(ctx context.Context) ([]Loan, error)
	// MarkFunded persists a Fund transition only if the row is still pending;
	// otherwise it returns ErrNotPending.
	MarkFunded(ctx context.Context, l *Loan) error
	// MarkCompleted persists funded → completed.
	MarkCompleted(ctx context.Context, l *Loan) error
}
