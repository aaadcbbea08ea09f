// Package amortization computes flat monthly installment schedules.
package amortization

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"p2p-lending-backend/internal/domain/money"
)

var ErrInvalidScheduleParameters = errors.New("invalid schedule parameters")

// PeriodDays is the fixed spacing between due dates. Calendar months are not used.
const PeriodDays = 30

// workPrecision bounds intermediate digits while compounding.
const workPrecision = 24

var (
	one          = decimal.NewFromInt(1)
	monthsPerPct = decimal.NewFromInt(1200)
)

type Entry struct {
	DueDate time.Time
	Amount  money.Money
}

// Installment returns the rounded flat monthly amount:
//
//	P * r * (1+r)^n / ((1+r)^n - 1),  r = annualRatePercent/100/12
//
// A zero rate splits the principal evenly.
func Installment(principal money.Money, annualRatePercent decimal.Decimal, termMonths int) (money.Money, error) {
	// A zero rate is allowed here and amortizes evenly; offers enforce rate > 0.
	if termMonths <= 0 || !principal.IsPositive() || annualRatePercent.IsNegative() {
		return money.Money{}, ErrInvalidScheduleParameters
	}
	p := principal.Decimal()
	n := int64(termMonths)

	r := annualRatePercent.DivRound(monthsPerPct, workPrecision)
	if r.IsZero() {
		return money.New(p.DivRound(decimal.NewFromInt(n), workPrecision)).Round(), nil
	}
	factor := compound(one.Add(r), n)
	raw := p.Mul(r).Mul(factor).DivRound(factor.Sub(one), workPrecision)
	return money.New(raw).Round(), nil
}

// Schedule returns termMonths entries of the same amount, due every PeriodDays
// after startDate's calendar day.
func Schedule(principal money.Money, annualRatePercent decimal.Decimal, termMonths int, startDate time.Time) ([]Entry, error) {
	amount, err := Installment(principal, annualRatePercent, termMonths)
	if err != nil {
		return nil, err
	}
	start := DateOf(startDate)
	out := make([]Entry, termMonths)
	for i := range out {
		out[i] = Entry{
			DueDate: start.AddDate(0, 0, PeriodDays*(i+1)),
			Amount:  amount,
		}
	}
	return out, nil
}

// DateOf truncates t to midnight UTC of its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func compound(base decimal.Decimal, n int64) decimal.Decimal {
	out := one
	for ; n > 0; n-- {
		out = out.Mul(base).Round(workPrecision)
	}
	return out
}
