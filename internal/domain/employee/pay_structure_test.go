package employee

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayStructure(t *testing.T) {
	t.Run("empty and null mean no pay structure", func(t *testing.T) {
		for _, raw := range []string{"", "null"} {
			ps, err := ParsePayStructure([]byte(raw))
			require.NoError(t, err)
			assert.Nil(t, ps)
		}
	})

	t.Run("absent modes become NONE", func(t *testing.T) {
		ps, err := ParsePayStructure([]byte(`{"daily_rates":{"ni_regular_day_rate":"12.5"}}`))

		require.NoError(t, err)
		require.NotNil(t, ps)
		assert.Equal(t, NIDayModeNone, ps.DailyRates.NIDayMode)
		assert.Equal(t, CashDayModeNone, ps.DailyRates.CashDayMode)
		assert.Equal(t, NIHoursModeNone, ps.HourlyRates.NIHoursMode)
		assert.Equal(t, CashHoursModeNone, ps.HourlyRates.CashHoursMode)
		assert.True(t, decimal.RequireFromString("12.5").Equal(ps.DailyRates.NIRegularDayRate))
	})

	t.Run("numbers and strings both decode", func(t *testing.T) {
		ps, err := ParsePayStructure([]byte(`{"hourly_rates":{"ni_hours_mode":"CUSTOM","percentage_ni_hours":50,"ni_rate_per_hour":"11.20"}}`))

		require.NoError(t, err)
		assert.Equal(t, NIHoursModeCustom, ps.HourlyRates.NIHoursMode)
		assert.True(t, decimal.NewFromInt(50).Equal(ps.HourlyRates.PercentageNIHours))
		assert.True(t, decimal.RequireFromString("11.2").Equal(ps.HourlyRates.NIRatePerHour))
	})

	t.Run("unknown mode is rejected", func(t *testing.T) {
		_, err := ParsePayStructure([]byte(`{"hourly_rates":{"cash_hours_mode":"HALF"}}`))

		assert.True(t, errors.Is(err, ErrInvalidPayStructure))
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParsePayStructure([]byte(`{"daily_rates":`))
		assert.Error(t, err)
	})
}

func TestPayStructure_Validate_Considerations(t *testing.T) {
	ps := PayStructure{
		OtherConsiderations: OtherConsiderations{
			NIAdditions:    []Consideration{{Name: "Bonus", Amount: decimal.NewFromInt(10)}},
			CashDeductions: []Consideration{{Name: " ", Amount: decimal.NewFromInt(1)}},
		},
	}
	ps.Normalize()

	err := ps.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "other_considerations.cash_deductions[0].name")
}

func TestSumConsiderations(t *testing.T) {
	items := []Consideration{
		{Name: "a", Amount: decimal.RequireFromString("1.10")},
		{Name: "b", Amount: decimal.RequireFromString("2.05")},
	}

	assert.True(t, decimal.RequireFromString("3.15").Equal(SumConsiderations(items)))
	assert.True(t, SumConsiderations(nil).IsZero())
}

func TestEmployee_DisplayName(t *testing.T) {
	preferred := "Ally"
	blank := "  "

	assert.Equal(t, "Alice Smith", Employee{FirstName: "Alice", LastName: "Smith"}.DisplayName())
	assert.Equal(t, "Ally Smith", Employee{FirstName: "Alice", LastName: "Smith", PreferredName: &preferred}.DisplayName())
	assert.Equal(t, "Alice Smith", Employee{FirstName: "Alice", LastName: "Smith", PreferredName: &blank}.DisplayName())
}

func TestPayStructure_Validate_NegativeRates(t *testing.T) {
	ps := PayStructure{
		HourlyRates: HourlyRates{NIRatePerHour: decimal.NewFromInt(-5)},
		OtherConsiderations: OtherConsiderations{
			NIDeductions: []Consideration{{Name: "Loan", Amount: decimal.NewFromInt(-1)}},
		},
	}
	ps.Normalize()

	err := ps.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "hourly_rates.ni_rate_per_hour: must not be negative")
	assert.Contains(t, err.Error(), "other_considerations.ni_deductions[0].amount: must not be negative")
}
