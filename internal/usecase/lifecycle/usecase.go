package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"p2p-lending-backend/internal/domain/amortization"
	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/money"
	"p2p-lending-backend/internal/domain/payment"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/domain/user"
	loanuc "p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/pkg/id"
)

type Recorder interface {
	LoanFunded(total money.Money)
	PaymentApplied()
	LoanCompleted()
}

// Usecase drives pending → funded → completed. Every operation runs inside
// one transaction holding the loan row lock.
type Usecase struct {
	tx      uow.UnitOfWork
	metrics Recorder
	log     *slog.Logger
	now     func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, metrics Recorder, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{tx: tx, metrics: metrics, log: log, now: time.Now}
}

// WithClock replaces the time source used for funded_at and the schedule start.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// AcceptOffer funds the caller's loan from the chosen offer: the lender is
// debited principal+fee, the loan is stamped and the full schedule is created,
// all in one commit.
func (u *Usecase) AcceptOffer(ctx context.Context, caller *user.User, in AcceptOfferInput) (*loanuc.LoanDTO, error) {
	if caller == nil {
		return nil, user.ErrForbiddenRole
	}

	var (
		funded *loan.Loan
		lender *user.User
		total  money.Money
	)
	err := u.tx.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.OwnedBy(caller.ID) {
			return loan.ErrNotFound
		}
		o, err := r.Offers.GetForLoan(ctx, in.OfferID, l.ID)
		if err != nil {
			return err
		}
		if l.Status != loan.StatusPending {
			return loan.ErrNotPending
		}

		lender, err = r.Users.GetByID(ctx, o.LenderID)
		if err != nil {
			return fmt.Errorf("offer lender: %w", err)
		}
		total = l.TotalFunding()
		if err := ledger.DebitForFunding(ctx, r.Users, lender, total); err != nil {
			return err
		}

		now := u.now().UTC()
		if err := l.Fund(lender.ID, o.InterestRate, now); err != nil {
			return err
		}
		entries, err := amortization.Schedule(l.Amount, o.InterestRate, l.TermMonths, now)
		if err != nil {
			return err
		}
		if err := r.Loans.MarkFunded(ctx, l); err != nil {
			return err
		}

		ps := make([]payment.Payment, 0, len(entries))
		for _, e := range entries {
			ps = append(ps, payment.Payment{
				PaymentID: id.NewID32(),
				LoanID:    l.ID,
				Status:    payment.StatusPending,
				DueDate:   e.DueDate,
				Amount:    e.Amount,
			})
		}
		if err := r.Payments.CreateBatch(ctx, ps); err != nil {
			return fmt.Errorf("create payment schedule: %w", err)
		}
		funded = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.metrics != nil {
		u.metrics.LoanFunded(total)
	}
	u.log.InfoContext(ctx, "loan funded",
		"loan_id", funded.LoanID,
		"offer_id", in.OfferID,
		"lender_id", lender.UserID,
		"debited", total.String(),
		"rate", funded.AnnualInterestRate.Decimal.String(),
	)

	dto := loanuc.NewLoanDTO(funded, caller, lender)
	return &dto, nil
}

// MakePayment settles the earliest-due pending installment. With nothing left
// to pay it succeeds without touching any record. Any excess over the
// installment is not credited.
func (u *Usecase) MakePayment(ctx context.Context, caller *user.User, in MakePaymentInput) (*PaymentResultDTO, error) {
	if caller == nil {
		return nil, user.ErrForbiddenRole
	}

	var (
		res       *PaymentResultDTO
		completed bool
	)
	err := u.tx.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.OwnedBy(caller.ID) {
			return loan.ErrNotFound
		}

		p, err := r.Payments.NextPending(ctx, l.ID)
		if errors.Is(err, payment.ErrNotFound) {
			res = &PaymentResultDTO{LoanID: l.LoanID, LoanStatus: string(l.Status), Message: MsgAllPaymentsCompleted}
			return nil
		}
		if err != nil {
			return err
		}
		if !p.Covers(in.Amount) {
			return fmt.Errorf("%w: due %s, got %s", payment.ErrInsufficientPayment, p.Amount, in.Amount)
		}
		if l.LenderID == nil {
			return loan.ErrInvalidTransition
		}

		if err := r.Payments.MarkPaid(ctx, p); err != nil {
			return err
		}
		if err := ledger.CreditFromPayment(ctx, r.Users, *l.LenderID, p.Amount); err != nil {
			return err
		}

		remaining, err := r.Payments.CountPending(ctx, l.ID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := r.Loans.MarkCompleted(ctx, l); err != nil {
				return err
			}
			l.Complete()
			completed = true
		}

		dto := loanuc.NewPaymentDTO(p)
		res = &PaymentResultDTO{
			LoanID:        l.LoanID,
			LoanStatus:    string(l.Status),
			PaymentStatus: string(p.Status),
			Payment:       &dto,
			Message:       MsgPaymentSuccessful,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Payment == nil {
		return res, nil
	}

	if u.metrics != nil {
		u.metrics.PaymentApplied()
		if completed {
			u.metrics.LoanCompleted()
		}
	}
	u.log.InfoContext(ctx, "payment applied", "loan_id", res.LoanID, "payment_id", res.Payment.PaymentID, "amount", res.Payment.Amount.String())
	if completed {
		u.log.InfoContext(ctx, "loan completed", "loan_id", res.LoanID)
	}
	return res, nil
}
