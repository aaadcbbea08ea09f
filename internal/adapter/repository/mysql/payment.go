package mysql

import (
	"context"
	"errors"
	"time"

	paymentDomain "p2p-lending-backend/internal/domain/payment"

	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) CreateBatch(ctx context.Context, ps []paymentDomain.Payment) error {
	if len(ps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ps).Error
}

func (r *PaymentRepository) NextPending(ctx context.Context, loanNumericID uint64) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND status = ?", loanNumericID, paymentDomain.StatusPending).
		Order("due_date ASC, id ASC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, paymentDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *PaymentRepository) MarkPaid(ctx context.Context, p *paymentDomain.Payment) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&paymentDomain.Payment{}).
		Where("id = ? AND status = ?", p.ID, paymentDomain.StatusPending).
		Updates(map[string]any{"status": paymentDomain.StatusPaid, "paid_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return paymentDomain.ErrNotFound
	}
	p.Status = paymentDomain.StatusPaid
	p.PaidAt = &now
	return nil
}

func (r *PaymentRepository) CountPending(ctx context.Context, loanNumericID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&paymentDomain.Payment{}).
		Where("loan_id = ? AND status = ?", loanNumericID, paymentDomain.StatusPending).
		Count(&n).Error
	return n, err
}

func (r *PaymentRepository) ListByLoan(ctx context.Context, loanNumericID uint64) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("due_date ASC, id ASC").
		Find(&out)
	return out, res.Error
}
