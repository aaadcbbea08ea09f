package payment

import "context"

type Repository interface {
	// CreateBatch inserts a loan's whole schedule in one statement.
	CreateBatch(ctx context.Context, ps []Payment) error
	// NextPending returns the earliest-due pending installment (ties by id);
	// ErrNotFound when the loan has none.
	NextPending(ctx context.Context, loanNumericID uint64) (*Payment, error)
	// MarkPaid flips one pending installment to paid; ErrNotFound if it was not pending.
	MarkPaid(ctx context.Context, p *Payment) error
	CountPending(ctx context.Context, loanNumericID uint64) (int64, error)
	ListByLoan(ctx context.Context, loanNumericID uint64) ([]Payment, error)
}
