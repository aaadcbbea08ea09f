package mysql

import (
	"context"
	"errors"

	offerDomain "p2p-lending-backend/internal/domain/offer"

	"gorm.io/gorm"
)

type OfferRepository struct{ db *gorm.DB }

func NewOfferRepository(db *gorm.DB) *OfferRepository { return &OfferRepository{db: db} }

func (r *OfferRepository) Create(ctx context.Context, o *offerDomain.Offer) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OfferRepository) GetForLoan(ctx context.Context, offerID string, loanNumericID uint64) (*offerDomain.Offer, error) {
	var out offerDomain.Offer
	res := r.db.WithContext(ctx).
		Where("offer_id = ? AND loan_id = ?", offerID, loanNumericID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, offerDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *OfferRepository) ListByLoan(ctx context.Context, loanNumericID uint64) ([]offerDomain.Offer, error) {
	var out []offerDomain.Offer
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
