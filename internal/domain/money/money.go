package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for stored amounts.
const Scale = 2

var (
	ErrInvalidAmount = errors.New("invalid money amount")
	ErrOutOfRange    = errors.New("money amount out of range")
)

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// Money is an exact fixed-point amount. It is persisted as an integer count of
// cents.
type Money struct {
	amount decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{amount: decimal.Zero}

func New(d decimal.Decimal) Money { return Money{amount: d} }

func FromCents(cents int64) Money { return Money{amount: decimal.New(cents, -Scale)} }

func FromInt(units int64) Money { return Money{amount: decimal.NewFromInt(units)} }

// Parse reads a decimal string such as "5003.75".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w %q: %v", ErrInvalidAmount, s, err)
	}
	return Money{amount: d}, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Decimal() decimal.Decimal { return m.amount }

func (m Money) Add(o Money) Money { return Money{amount: m.amount.Add(o.amount)} }

func (m Money) Sub(o Money) Money { return Money{amount: m.amount.Sub(o.amount)} }

func (m Money) Mul(f decimal.Decimal) Money { return Money{amount: m.amount.Mul(f)} }

func (m Money) MulInt(n int64) Money { return Money{amount: m.amount.Mul(decimal.NewFromInt(n))} }

// Round rounds to cents, half away from zero (half-up for positive amounts).
func (m Money) Round() Money { return Money{amount: m.amount.Round(Scale)} }

// Cents returns the amount in minor units after rounding to cents. The result
// is only meaningful when FitsCents reports true.
func (m Money) Cents() int64 { return m.amount.Round(Scale).Shift(Scale).IntPart() }

// FitsCents reports whether the amount, in cents, fits a BIGINT column.
func (m Money) FitsCents() bool {
	c := m.amount.Round(Scale).Shift(Scale)
	return c.GreaterThanOrEqual(minCents) && c.LessThanOrEqual(maxCents)
}

// HasSubCents reports whether the amount carries digits below one cent.
func (m Money) HasSubCents() bool { return !m.amount.Equal(m.amount.Round(Scale)) }

func (m Money) Cmp(o Money) int { return m.amount.Cmp(o.amount) }

func (m Money) Equal(o Money) bool { return m.amount.Equal(o.amount) }

func (m Money) LessThan(o Money) bool { return m.amount.LessThan(o.amount) }

func (m Money) GreaterThanOrEqual(o Money) bool { return m.amount.GreaterThanOrEqual(o.amount) }

func (m Money) IsZero() bool { return m.amount.IsZero() }

func (m Money) IsPositive() bool { return m.amount.IsPositive() }

func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// String formats with exactly two decimals, e.g. "5003.75".
func (m Money) String() string { return m.amount.StringFixed(Scale) }

// MarshalJSON emits a quoted fixed-point string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both "12.34" and 12.34.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	m.amount = d
	return nil
}

// GormDataType stores Money as BIGINT cents.
func (Money) GormDataType() string { return "bigint" }

func (m Money) Value() (driver.Value, error) {
	if !m.FitsCents() {
		return nil, fmt.Errorf("%w: %s", ErrOutOfRange, m)
	}
	return m.Cents(), nil
}

func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*m = FromCents(v)
	case []byte:
		return m.scanString(string(v))
	case string:
		return m.scanString(v)
	case nil:
		*m = Zero
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
	return nil
}

func (m *Money) scanString(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money: scan %q: %w", s, err)
	}
	*m = Money{amount: d.Shift(-Scale)}
	return nil
}
