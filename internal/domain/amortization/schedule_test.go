package amortization

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2p-lending-backend/internal/domain/money"
)

var start = time.Date(2025, 1, 31, 15, 4, 5, 0, time.UTC)

func TestSchedule_FiveThousandAtFifteenPercent(t *testing.T) {
	principal := money.FromInt(5000)

	schedule, err := Schedule(principal, decimal.NewFromInt(15), 6, start)
	require.NoError(t, err)
	require.Len(t, schedule, 6)

	total := money.Zero
	floor := money.New(principal.Decimal().Div(decimal.NewFromInt(6)))
	for _, e := range schedule {
		assert.Equal(t, "870.17", e.Amount.String())
		assert.True(t, e.Amount.GreaterThanOrEqual(floor), "installment %s below principal/term", e.Amount)
		total = total.Add(e.Amount)
	}
	assert.Equal(t, "5221.02", total.String())
}

func TestSchedule_Properties(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		term      int
		want      string
	}{
		{name: "one year at 12%", principal: "1000", rate: "12", term: 12, want: "88.85"},
		{name: "short term fractional monthly rate", principal: "100", rate: "10", term: 3, want: "33.89"},
		{name: "single period", principal: "250.50", rate: "6", term: 1, want: "251.75"},
		{name: "thirty years", principal: "100000", rate: "5", term: 360, want: "536.82"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := Schedule(money.MustParse(tt.principal), decimal.RequireFromString(tt.rate), tt.term, start)
			require.NoError(t, err)
			require.Len(t, schedule, tt.term)

			first := schedule[0]
			assert.Equal(t, tt.want, first.Amount.String())
			assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), first.DueDate)

			for i := 1; i < len(schedule); i++ {
				assert.True(t, schedule[i].Amount.Equal(first.Amount), "installment %d differs", i)
				assert.Equal(t, PeriodDays*24*time.Hour, schedule[i].DueDate.Sub(schedule[i-1].DueDate))
			}
		})
	}
}

func TestSchedule_ZeroRateSplitsEvenly(t *testing.T) {
	schedule, err := Schedule(money.FromInt(1200), decimal.Zero, 12, start)
	require.NoError(t, err)
	require.Len(t, schedule, 12)
	for _, e := range schedule {
		assert.Equal(t, "100.00", e.Amount.String())
	}

	amount, err := Installment(money.FromInt(100), decimal.Zero, 3)
	require.NoError(t, err)
	assert.Equal(t, "33.33", amount.String())
}

func TestSchedule_InvalidParameters(t *testing.T) {
	tests := []struct {
		name      string
		principal money.Money
		rate      decimal.Decimal
		term      int
	}{
		{name: "zero term", principal: money.FromInt(100), rate: decimal.NewFromInt(5), term: 0},
		{name: "negative term", principal: money.FromInt(100), rate: decimal.NewFromInt(5), term: -3},
		{name: "zero principal", principal: money.Zero, rate: decimal.NewFromInt(5), term: 6},
		{name: "negative principal", principal: money.FromInt(-1), rate: decimal.NewFromInt(5), term: 6},
		{name: "negative rate", principal: money.FromInt(100), rate: decimal.NewFromInt(-1), term: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := Schedule(tt.principal, tt.rate, tt.term, start)
			assert.ErrorIs(t, err, ErrInvalidScheduleParameters)
			assert.Nil(t, schedule)
		})
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	got := DateOf(time.Date(2025, 9, 6, 2, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC), got)
}
