package loanmock

import (
	"context"

	domain "p2p-lending-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset writers succeed; unset readers return context.Canceled.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListFn                 func(ctx context.Context) ([]domain.Loan, error)
	ListOpenFn             func(ctx context.Context) ([]domain.Loan, error)
	MarkFundedFn           func(ctx context.Context, l *domain.Loan) error
	MarkCompletedFn        func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) ListOpen(ctx context.Context) ([]domain.Loan, error) {
	if m.ListOpenFn != nil {
		return m.ListOpenFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) MarkFunded(ctx context.Context, l *domain.Loan) error {
	if m.MarkFundedFn != nil {
		return m.MarkFundedFn(ctx, l)
	}
	return nil
}

func (m *Repo) MarkCompleted(ctx context.Context, l *domain.Loan) error {
	if m.MarkCompletedFn != nil {
		return m.MarkCompletedFn(ctx, l)
	}
	return nil
}
