package user

import (
	"errors"
	"time"

	"p2p-lending-backend/internal/domain/money"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrForbiddenRole is the authorization failure: the caller's role may not perform the action.
	ErrForbiddenRole = errors.New("caller role not allowed for this action")
)

type Role string

const (
	RoleBorrower Role = "borrower"
	RoleLender   Role = "lender"
)

func (r Role) Valid() bool { return r == RoleBorrower || r == RoleLender }

// User is assigned its role at creation; only the ledger moves its balance.
type User struct {
	ID        uint64      `gorm:"primaryKey;column:id;autoIncrement" json:"-"`
	UserID    string      `gorm:"column:user_id;size:32;not null;uniqueIndex:ux_users_user_id" json:"user_id"`
	Username  string      `gorm:"column:username;size:150;not null;uniqueIndex:ux_users_username" json:"username"`
	Role      Role        `gorm:"column:role;type:varchar(16);not null" json:"role"`
	Balance   money.Money `gorm:"column:balance;not null" json:"balance"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (User) TableName() string { return "users" }

// Require fails with ErrForbiddenRole unless u holds role.
func (u *User) Require(role Role) error {
	if u == nil || u.Role != role {
		return ErrForbiddenRole
	}
	return nil
}
