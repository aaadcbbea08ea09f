package offermock

import (
	"context"

	domain "p2p-lending-backend/internal/domain/offer"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn     func(ctx context.Context, o *domain.Offer) error
	GetForLoanFn func(ctx context.Context, offerID string, loanNumericID uint64) (*domain.Offer, error)
	ListByLoanFn func(ctx context.Context, loanNumericID uint64) ([]domain.Offer, error)
}

func (m *Repo) Create(ctx context.Context, o *domain.Offer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, o)
	}
	return nil
}

func (m *Repo) GetForLoan(ctx context.Context, offerID string, loanNumericID uint64) (*domain.Offer, error) {
	if m.GetForLoanFn != nil {
		return m.GetForLoanFn(ctx, offerID, loanNumericID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLoan(ctx context.Context, loanNumericID uint64) ([]domain.Offer, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanNumericID)
	}
	return nil, nil
}
