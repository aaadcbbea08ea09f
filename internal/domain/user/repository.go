package user

import (
	"context"

	"p2p-lending-backend/internal/domain/money"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByUserID(ctx context.Context, userID string) (*User, error)

	// Debit atomically subtracts amount; it must fail with ledger.ErrInsufficientBalance
	// (and change nothing) when the balance would go below zero.
	Debit(ctx context.Context, id uint64, amount money.Money) error
	// Credit atomically adds amount.
	Credit(ctx context.Context, id uint64, amount money.Money) error
}
