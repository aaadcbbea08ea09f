package usermock

import (
	"context"

	"p2p-lending-backend/internal/domain/money"
	domain "p2p-lending-backend/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn      func(ctx context.Context, u *domain.User) error
	GetByIDFn     func(ctx context.Context, id uint64) (*domain.User, error)
	GetByUserIDFn func(ctx context.Context, userID string) (*domain.User, error)
	DebitFn       func(ctx context.Context, id uint64, amount money.Money) error
	CreditFn      func(ctx context.Context, id uint64, amount money.Money) error
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) Debit(ctx context.Context, id uint64, amount money.Money) error {
	if m.DebitFn != nil {
		return m.DebitFn(ctx, id, amount)
	}
	return nil
}

func (m *Repo) Credit(ctx context.Context, id uint64, amount money.Money) error {
	if m.CreditFn != nil {
		return m.CreditFn(ctx, id, amount)
	}
	return nil
}

// Users returns a Repo whose lookups resolve against the given users, by
// numeric id and by public user id.
func Users(us ...*domain.User) *Repo {
	return &Repo{
		GetByIDFn: func(_ context.Context, id uint64) (*domain.User, error) {
			for _, u := range us {
				if u.ID == id {
					return u, nil
				}
			}
			return nil, domain.ErrNotFound
		},
		GetByUserIDFn: func(_ context.Context, userID string) (*domain.User, error) {
			for _, u := range us {
				if u.UserID == userID {
					return u, nil
				}
			}
			return nil, domain.ErrNotFound
		},
	}
}
