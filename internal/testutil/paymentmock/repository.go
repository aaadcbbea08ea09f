package paymentmock

import (
	"context"

	domain "p2p-lending-backend/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateBatchFn  func(ctx context.Context, ps []domain.Payment) error
	NextPendingFn  func(ctx context.Context, loanNumericID uint64) (*domain.Payment, error)
	MarkPaidFn     func(ctx context.Context, p *domain.Payment) error
	CountPendingFn func(ctx context.Context, loanNumericID uint64) (int64, error)
	ListByLoanFn   func(ctx context.Context, loanNumericID uint64) ([]domain.Payment, error)
}

func (m *Repo) CreateBatch(ctx context.Context, ps []domain.Payment) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, ps)
	}
	return nil
}

// NextPending defaults to "no installments left".
func (m *Repo) NextPending(ctx context.Context, loanNumericID uint64) (*domain.Payment, error) {
	if m.NextPendingFn != nil {
		return m.NextPendingFn(ctx, loanNumericID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) MarkPaid(ctx context.Context, p *domain.Payment) error {
	if m.MarkPaidFn != nil {
		return m.MarkPaidFn(ctx, p)
	}
	p.Status = domain.StatusPaid
	return nil
}

func (m *Repo) CountPending(ctx context.Context, loanNumericID uint64) (int64, error) {
	if m.CountPendingFn != nil {
		return m.CountPendingFn(ctx, loanNumericID)
	}
	return 0, nil
}

func (m *Repo) ListByLoan(ctx context.Context, loanNumericID uint64) ([]domain.Payment, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanNumericID)
	}
	return nil, nil
}
