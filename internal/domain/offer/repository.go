package offer

import "context"

type Repository interface {
	Create(ctx context.Context, o *Offer) error
	// GetForLoan resolves an offer only when it belongs to the given loan.
	GetForLoan(ctx context.Context, offerID string, loanNumericID uint64) (*Offer, error)
	ListByLoan(ctx context.Context, loanNumericID uint64) ([]Offer, error)
}
