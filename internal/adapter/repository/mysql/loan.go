package mysql

import (
	"context"
	"errors"

	loanDomain "p2p-lending-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return notFound(&out, res.Error)
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return notFound(&out, res.Error)
}

func (r *LoanRepository) ListOpen(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("status = ? AND lender_id IS NULL", loanDomain.StatusPending).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) List(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

// MarkFunded is guarded by the pending status in the WHERE clause, so a second
// acceptance racing past the row lock still cannot overwrite the first.
func (r *LoanRepository) MarkFunded(ctx context.Context, l *loanDomain.Loan) error {
	if l.LenderID == nil || l.Status != loanDomain.StatusFunded {
		return loanDomain.ErrInvalidTransition
	}
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("id = ? AND status = ? AND lender_id IS NULL", l.ID, loanDomain.StatusPending).
		Updates(map[string]any{
			"lender_id":            *l.LenderID,
			"annual_interest_rate": l.AnnualInterestRate,
			"status":               l.Status,
			"funded_at":            l.FundedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrNotPending
	}
	return nil
}

func (r *LoanRepository) MarkCompleted(ctx context.Context, l *loanDomain.Loan) error {
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("id = ? AND status = ?", l.ID, loanDomain.StatusFunded).
		Update("status", loanDomain.StatusCompleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrInvalidTransition
	}
	l.Status = loanDomain.StatusCompleted
	return nil
}

func notFound(l *loanDomain.Loan, err error) (*loanDomain.Loan, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}
