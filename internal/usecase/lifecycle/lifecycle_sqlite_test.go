package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/money"
	"p2p-lending-backend/internal/domain/offer"
	"p2p-lending-backend/internal/domain/payment"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/domain/user"
	"p2p-lending-backend/internal/testutil/paymentmock"
	"p2p-lending-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// market is a sqlite-backed marketplace with one borrower and a loan awaiting offers.
type market struct {
	t        *testing.T
	db       *gorm.DB
	borrower *user.User
	loan     *loan.Loan
}

func newMarket(t *testing.T, principal string, term int) *market {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection serializes transactions the way the row lock does on MySQL
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&user.User{}, &loan.Loan{}, &offer.Offer{}, &payment.Payment{}))

	m := &market{t: t, db: db}
	m.borrower = m.user(user.RoleBorrower, "0")
	m.loan = &loan.Loan{
		LoanID: id.NewID32(), BorrowerID: m.borrower.ID,
		Amount: money.MustParse(principal), TermMonths: term,
		OriginationFee: loan.DefaultOriginationFee, Status: loan.StatusPending,
	}
	require.NoError(t, mysql.NewLoanRepository(db).Create(context.Background(), m.loan))
	return m
}

func (m *market) user(role user.Role, balance string) *user.User {
	uid := id.NewID32()
	u := &user.User{UserID: uid, Username: uid, Role: role, Balance: money.MustParse(balance)}
	require.NoError(m.t, mysql.NewUserRepository(m.db).Create(context.Background(), u))
	return u
}

func (m *market) offer(lender *user.User, rate string) *offer.Offer {
	o := &offer.Offer{OfferID: id.NewID32(), LoanID: m.loan.ID, LenderID: lender.ID, InterestRate: decimal.RequireFromString(rate)}
	require.NoError(m.t, mysql.NewOfferRepository(m.db).Create(context.Background(), o))
	return o
}

func (m *market) balance(u *user.User) string {
	got, err := mysql.NewUserRepository(m.db).GetByID(context.Background(), u.ID)
	require.NoError(m.t, err)
	return got.Balance.String()
}

func (m *market) reload() *loan.Loan {
	got, err := mysql.NewLoanRepository(m.db).GetByLoanID(context.Background(), m.loan.LoanID)
	require.NoError(m.t, err)
	return got
}

func (m *market) payments() []payment.Payment {
	ps, err := mysql.NewPaymentRepository(m.db).ListByLoan(context.Background(), m.loan.ID)
	require.NoError(m.t, err)
	return ps
}

func (m *market) usecase(tx uow.UnitOfWork) *Usecase {
	if tx == nil {
		tx = mysql.NewGormUoW(m.db)
	}
	return NewUsecase(tx, nil, nil).WithClock(clock)
}

func TestLifecycle_FullRepayment(t *testing.T) {
	ctx := context.Background()
	m := newMarket(t, "5000", 6)
	lender := m.user(user.RoleLender, "6000")
	o := m.offer(lender, "15")
	uc := m.usecase(nil)

	funded, err := uc.AcceptOffer(ctx, m.borrower, AcceptOfferInput{LoanID: m.loan.LoanID, OfferID: o.OfferID})
	require.NoError(t, err)
	assert.Equal(t, "funded", funded.Status)
	assert.Equal(t, "996.25", m.balance(lender))

	ps := m.payments()
	require.Len(t, ps, 6)
	total := money.Zero
	for i, p := range ps {
		assert.Equal(t, "870.17", p.Amount.String())
		assert.Equal(t, payment.StatusPending, p.Status)
		assert.True(t, p.DueDate.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 30*i)), "due date %d = %v", i, p.DueDate)
		total = total.Add(p.Amount)
	}
	assert.Equal(t, "5221.02", total.String())

	stored := m.reload()
	require.NotNil(t, stored.LenderID)
	assert.Equal(t, lender.ID, *stored.LenderID)
	assert.True(t, stored.AnnualInterestRate.Decimal.Equal(decimal.NewFromInt(15)))
	require.NotNil(t, stored.FundedAt)

	for i := 0; i < 6; i++ {
		res, err := uc.MakePayment(ctx, m.borrower, MakePaymentInput{LoanID: m.loan.LoanID, Amount: ps[i].Amount})
		require.NoError(t, err)
		require.NotNil(t, res.Payment)
		assert.Equal(t, ps[i].PaymentID, res.Payment.PaymentID, "payments must be settled in due-date order")
		if i < 5 {
			assert.Equal(t, "funded", res.LoanStatus)
		} else {
			assert.Equal(t, "completed", res.LoanStatus)
		}
	}

	assert.Equal(t, loan.StatusCompleted, m.reload().Status)
	// 996.25 + 6 × 870.17; the fee is never returned
	assert.Equal(t, "6217.27", m.balance(lender))

	// nothing left: success, no mutation
	res, err := uc.MakePayment(ctx, m.borrower, MakePaymentInput{LoanID: m.loan.LoanID, Amount: money.FromInt(870)})
	require.NoError(t, err)
	assert.Equal(t, MsgAllPaymentsCompleted, res.Message)
	assert.Equal(t, "6217.27", m.balance(lender))
	assert.Equal(t, loan.StatusCompleted, m.reload().Status)
}

func TestLifecycle_PaymentsSettleInDueDateOrder(t *testing.T) {
	ctx := context.Background()
	m := newMarket(t, "300", 3)
	lender := m.user(user.RoleLender, "1000")
	o := m.offer(lender, "12")
	uc := m.usecase(nil)

	_, err := uc.AcceptOffer(ctx, m.borrower, AcceptOfferInput{LoanID: m.loan.LoanID, OfferID: o.OfferID})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := uc.MakePayment(ctx, m.borrower, MakePaymentInput{LoanID: m.loan.LoanID, Amount: money.FromInt(500)})
		require.NoError(t, err)
	}

	ps := m.payments()
	require.Len(t, ps, 3)
	assert.True(t, ps[0].IsPaid(), "day 30 paid")
	assert.True(t, ps[1].IsPaid(), "day 60 paid")
	assert.False(t, ps[2].IsPaid(), "day 90 still pending")
	assert.Equal(t, loan.StatusFunded, m.reload().Status)
}

func TestLifecycle_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	m := newMarket(t, "5000", 6)
	lender := m.user(user.RoleLender, "5003.74")
	o := m.offer(lender, "15")

	_, err := m.usecase(nil).AcceptOffer(ctx, m.borrower, AcceptOfferInput{LoanID: m.loan.LoanID, OfferID: o.OfferID})
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	assert.Equal(t, "5003.74", m.balance(lender))
	stored := m.reload()
	assert.Equal(t, loan.StatusPending, stored.Status)
	assert.Nil(t, stored.LenderID)
	assert.Empty(t, m.payments())
}

func TestLifecycle_InsufficientPayment(t *testing.T) {
	ctx := context.Background()
	m := newMarket(t, "5000", 6)
	lender := m.user(user.RoleLender, "6000")
	o := m.offer(lender, "15")
	uc := m.usecase(nil)

	_, err := uc.AcceptOffer(ctx, m.borrower, AcceptOfferInput{LoanID: m.loan.LoanID, OfferID: o.OfferID})
	require.NoError(t, err)

	_, err = uc.MakePayment(ctx, m.borrower, MakePaymentInput{LoanID: m.loan.LoanID, Amount: money.MustParse("870.16")})
	require.ErrorIs(t, err, payment.ErrInsufficientPayment)
	assert.Equal(t, "996.25", m.balance(lender))
	for _, p := range m.payments() {
		assert.False(t, p.IsPaid())
	}
}

// scheduleFails injects a failure after the debit and the loan update.
type scheduleFails struct {
	*mysql.GormUoW
	err error
}

func (s scheduleFails) WithinLoanTx(ctx context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
	return s.GormUoW.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		r.Payments = &paymentmock.Repo{
			CreateBatchFn: func(context.Context, []payment.Payment) error { return s.err },
		}
		return fn(r, l)
	})
}

func TestLifecycle_AcceptOffer_IsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	m := newMarket(t, "5000", 6)
	lender := m.user(user.RoleLender, "6000")
	o := m.offer(lender, "15")

	boom := errors.New("disk full")
	uc := m.usecase(scheduleFails{GormUoW: mysql.NewGormUoW(m.db), err: boom})

	_, err := uc.AcceptOffer(ctx, m.borrower, AcceptOfferInput{LoanID: m.loan.LoanID, OfferID: o.OfferID})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, "6000.00", m.balance(lender), "debit must roll back")
	stored := m.reload()
	assert.Equal(t, loan.StatusPending, stored.Status)
	assert.Nil(t, stored.LenderID)
	assert.False(t, stored.AnnualInterestRate.Valid)
	assert.Nil(t, stored.FundedAt)
	assert.Empty(t, m.payments())

	// the loan is still open and can be funded normally afterwards
	_, err = m.usecase(nil).AcceptOffer(ctx, m.borrower, AcceptOfferInput{LoanID: m.loan.LoanID, OfferID: o.OfferID})
	require.NoError(t, err)
	assert.Len(t, m.payments(), 6)
}

func TestLifecycle_ConcurrentAcceptance(t *testing.T) {
	ctx := context.Background()
	m := newMarket(t, "5000", 6)
	lenders := []*user.User{m.user(user.RoleLender, "6000"), m.user(user.RoleLender, "6000")}
	offers := []*offer.Offer{m.offer(lenders[0], "15"), m.offer(lenders[1], "12")}
	uc := m.usecase(nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range offers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = uc.AcceptOffer(ctx, m.borrower, AcceptOfferInput{LoanID: m.loan.LoanID, OfferID: offers[i].OfferID})
		}(i)
	}
	close(start)
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, winner, "both acceptances succeeded")
			winner = i
			continue
		}
		assert.ErrorIs(t, err, loan.ErrNotPending)
	}
	require.NotEqual(t, -1, winner, "no acceptance succeeded: %v", errs)

	stored := m.reload()
	require.NotNil(t, stored.LenderID)
	assert.Equal(t, lenders[winner].ID, *stored.LenderID)
	assert.Len(t, m.payments(), 6)
	assert.Equal(t, "996.25", m.balance(lenders[winner]))
	assert.Equal(t, "6000.00", m.balance(lenders[1-winner]))
}

func TestLifecycle_ForeignBorrower(t *testing.T) {
	ctx := context.Background()
	m := newMarket(t, "5000", 6)
	lender := m.user(user.RoleLender, "6000")
	o := m.offer(lender, "15")
	stranger := m.user(user.RoleBorrower, "0")
	uc := m.usecase(nil)

	_, err := uc.AcceptOffer(ctx, stranger, AcceptOfferInput{LoanID: m.loan.LoanID, OfferID: o.OfferID})
	require.ErrorIs(t, err, loan.ErrNotFound)
	_, err = uc.MakePayment(ctx, stranger, MakePaymentInput{LoanID: m.loan.LoanID, Amount: money.FromInt(1)})
	require.ErrorIs(t, err, loan.ErrNotFound)
	assert.Equal(t, "6000.00", m.balance(lender))
}
