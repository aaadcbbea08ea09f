package offer

import (
	"context"
	"fmt"
	"log/slog"

	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/offer"
	"p2p-lending-backend/internal/domain/user"
	loanuc "p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/pkg/id"

	"github.com/shopspring/decimal"
)

// maxRate fits DECIMAL(5,2).
var maxRate = decimal.RequireFromString("999.99")

type Recorder interface {
	OfferSubmitted()
}

type SubmitOfferInput struct {
	LoanID       string
	InterestRate decimal.Decimal // annual, percent
}

type Usecase struct {
	loans   loan.Repository
	offers  offer.Repository
	metrics Recorder
	log     *slog.Logger
}

func NewUsecase(loans loan.Repository, offers offer.Repository, metrics Recorder, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{loans: loans, offers: offers, metrics: metrics, log: log}
}

// Submit records a lender's rate for a loan. The loan may be in any status.
func (u *Usecase) Submit(ctx context.Context, caller *user.User, in SubmitOfferInput) (*loanuc.OfferDTO, error) {
	if err := caller.Require(user.RoleLender); err != nil {
		return nil, err
	}
	rate := in.InterestRate
	if !rate.IsPositive() || rate.GreaterThan(maxRate) || !rate.Equal(rate.Round(2)) {
		return nil, offer.ErrInvalidRate
	}

	l, err := u.loans.GetByLoanID(ctx, in.LoanID)
	if err != nil {
		return nil, err
	}

	o := &offer.Offer{
		OfferID:      id.NewID32(),
		LoanID:       l.ID,
		LenderID:     caller.ID,
		InterestRate: rate,
	}
	if err := u.offers.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}
	if u.metrics != nil {
		u.metrics.OfferSubmitted()
	}
	u.log.InfoContext(ctx, "offer submitted", "offer_id", o.OfferID, "loan_id", l.LoanID, "lender_id", caller.UserID, "rate", rate.String())

	dto := loanuc.NewOfferDTO(o, l.LoanID, caller)
	return &dto, nil
}
