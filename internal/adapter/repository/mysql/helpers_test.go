package mysql

import (
	"context"
	"testing"
	"time"

	loanDomain "p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/money"
	offerDomain "p2p-lending-backend/internal/domain/offer"
	paymentDomain "p2p-lending-backend/internal/domain/payment"
	userDomain "p2p-lending-backend/internal/domain/user"
	"p2p-lending-backend/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with the domain schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// one connection, otherwise each conn gets its own :memory: db
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&userDomain.User{}, &loanDomain.Loan{}, &offerDomain.Offer{}, &paymentDomain.Payment{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role userDomain.Role, balance string) *userDomain.User {
	t.Helper()
	uid := id.NewID32()
	u := &userDomain.User{
		UserID:   uid,
		Username: string(role) + "-" + uid[:8],
		Role:     role,
		Balance:  money.MustParse(balance),
	}
	if err := NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedLoan(t *testing.T, db *gorm.DB, borrowerID uint64, amount string) *loanDomain.Loan {
	t.Helper()
	l := &loanDomain.Loan{
		LoanID:         id.NewID32(),
		BorrowerID:     borrowerID,
		Amount:         money.MustParse(amount),
		TermMonths:     loanDomain.DefaultTermMonths,
		OriginationFee: loanDomain.DefaultOriginationFee,
		Status:         loanDomain.StatusPending,
	}
	if err := NewLoanRepository(db).Create(context.Background(), l); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
