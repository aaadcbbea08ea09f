package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/money"
	"p2p-lending-backend/internal/domain/offer"
	"p2p-lending-backend/internal/domain/payment"
	"p2p-lending-backend/internal/domain/user"
	"p2p-lending-backend/pkg/id"
)

type Recorder interface {
	LoanCreated()
}

type Usecase struct {
	users    user.Repository
	loans    loan.Repository
	offers   offer.Repository
	payments payment.Repository

	fee     money.Money
	metrics Recorder
	log     *slog.Logger
}

func NewUsecase(users user.Repository, loans loan.Repository, offers offer.Repository, payments payment.Repository, fee money.Money, metrics Recorder, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{users: users, loans: loans, offers: offers, payments: payments, fee: fee, metrics: metrics, log: log}
}

func (u *Usecase) Create(ctx context.Context, caller *user.User, in CreateLoanInput) (*LoanDTO, error) {
	if err := caller.Require(user.RoleBorrower); err != nil {
		return nil, err
	}
	term := in.TermMonths
	if term == 0 {
		term = loan.DefaultTermMonths
	}
	if term < 0 || !in.Amount.IsPositive() || in.Amount.HasSubCents() || loan.MaxAmount.LessThan(in.Amount) {
		return nil, loan.ErrInvalidInput
	}

	l := &loan.Loan{
		LoanID:         id.NewID32(),
		BorrowerID:     caller.ID,
		Amount:         in.Amount,
		TermMonths:     term,
		OriginationFee: u.fee,
		Status:         loan.StatusPending,
	}
	if err := u.loans.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}
	if u.metrics != nil {
		u.metrics.LoanCreated()
	}
	u.log.InfoContext(ctx, "loan created", "loan_id", l.LoanID, "borrower_id", caller.UserID, "amount", l.Amount.String())

	dto := NewLoanDTO(l, caller, nil)
	return &dto, nil
}

// List returns every loan, newest first.
func (u *Usecase) List(ctx context.Context) ([]LoanDTO, error) {
	ls, err := u.loans.List(ctx)
	if err != nil {
		return nil, err
	}
	return u.summaries(ctx, ls)
}

// ListOpen returns loans still waiting for a lender, newest first.
func (u *Usecase) ListOpen(ctx context.Context) ([]LoanDTO, error) {
	ls, err := u.loans.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	return u.summaries(ctx, ls)
}

func (u *Usecase) summaries(ctx context.Context, ls []loan.Loan) ([]LoanDTO, error) {
	users := u.userCache()
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		borrower, err := users(ctx, ls[i].BorrowerID)
		if err != nil {
			return nil, err
		}
		var lender *user.User
		if ls[i].LenderID != nil {
			if lender, err = users(ctx, *ls[i].LenderID); err != nil {
				return nil, err
			}
		}
		out = append(out, NewLoanDTO(&ls[i], borrower, lender))
	}
	return out, nil
}

// Get returns a loan with its offers and payment schedule.
func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDetailDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	users := u.userCache()

	borrower, err := users(ctx, l.BorrowerID)
	if err != nil {
		return nil, err
	}
	var lender *user.User
	if l.LenderID != nil {
		if lender, err = users(ctx, *l.LenderID); err != nil {
			return nil, err
		}
	}

	offers, err := u.offers.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	payments, err := u.payments.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	out := &LoanDetailDTO{
		LoanDTO:  NewLoanDTO(l, borrower, lender),
		Offers:   make([]OfferDTO, 0, len(offers)),
		Payments: make([]PaymentDTO, 0, len(payments)),
	}
	for i := range offers {
		offerLender, err := users(ctx, offers[i].LenderID)
		if err != nil {
			return nil, err
		}
		out.Offers = append(out.Offers, NewOfferDTO(&offers[i], l.LoanID, offerLender))
	}
	for i := range payments {
		out.Payments = append(out.Payments, NewPaymentDTO(&payments[i]))
	}
	return out, nil
}

// userCache memoizes lookups for one request. A user that has since
// disappeared renders without a public id rather than failing the read.
func (u *Usecase) userCache() func(context.Context, uint64) (*user.User, error) {
	seen := map[uint64]*user.User{}
	return func(ctx context.Context, id uint64) (*user.User, error) {
		if got, ok := seen[id]; ok {
			return got, nil
		}
		got, err := u.users.GetByID(ctx, id)
		if errors.Is(err, user.ErrNotFound) {
			got, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
		seen[id] = got
		return got, nil
	}
}
