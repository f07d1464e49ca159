package employee

import (
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// NIDayMode selects how the NI daily wage is derived.
type NIDayMode string

const (
	NIDayModeNone  NIDayMode = "NONE"
	NIDayModeAll   NIDayMode = "ALL"
	NIDayModeFixed NIDayMode = "FIXED"
)

func (m NIDayMode) IsValid() bool {
	switch m {
	case NIDayModeNone, NIDayModeAll, NIDayModeFixed:
		return true
	}
	return false
}

// CashDayMode selects how the cash daily wage is derived.
type CashDayMode string

const (
	CashDayModeNone CashDayMode = "NONE"
	CashDayModeAll  CashDayMode = "ALL"
)

func (m CashDayMode) IsValid() bool {
	switch m {
	case CashDayModeNone, CashDayModeAll:
		return true
	}
	return false
}

// NIHoursMode selects how many worked hours are paid on the NI track.
type NIHoursMode string

const (
	NIHoursModeNone   NIHoursMode = "NONE"
	NIHoursModeFixed  NIHoursMode = "FIXED"
	NIHoursModeAll    NIHoursMode = "ALL"
	NIHoursModeCustom NIHoursMode = "CUSTOM"
)

func (m NIHoursMode) IsValid() bool {
	switch m {
	case NIHoursModeNone, NIHoursModeFixed, NIHoursModeAll, NIHoursModeCustom:
		return true
	}
	return false
}

// CashHoursMode selects how many worked hours are paid on the cash track.
type CashHoursMode string

const (
	CashHoursModeNone   CashHoursMode = "NONE"
	CashHoursModeRest   CashHoursMode = "REST"
	CashHoursModeAll    CashHoursMode = "ALL"
	CashHoursModeCustom CashHoursMode = "CUSTOM"
)

func (m CashHoursMode) IsValid() bool {
	switch m {
	case CashHoursModeNone, CashHoursModeRest, CashHoursModeAll, CashHoursModeCustom:
		return true
	}
	return false
}

type DailyRates struct {
	NIDayMode          NIDayMode       `json:"ni_day_mode"`
	NIRegularDays      decimal.Decimal `json:"ni_regular_days"`
	NIRegularDayRate   decimal.Decimal `json:"ni_regular_day_rate"`
	NIExtraDayRate     decimal.Decimal `json:"ni_extra_day_rate"`
	NIExtraShiftRate   decimal.Decimal `json:"ni_extra_shift_rate"`
	CashDayMode        CashDayMode     `json:"cash_day_mode"`
	CashRegularDays    decimal.Decimal `json:"cash_regular_days"`
	CashRegularDayRate decimal.Decimal `json:"cash_regular_day_rate"`
	CashExtraDayRate   decimal.Decimal `json:"cash_extra_day_rate"`
	CashExtraShiftRate decimal.Decimal `json:"cash_extra_shift_rate"`
}

type HourlyRates struct {
	NIHoursMode         NIHoursMode     `json:"ni_hours_mode"`
	FixedNIHours        decimal.Decimal `json:"fixed_ni_hours"`
	MinNIHours          decimal.Decimal `json:"min_ni_hours"`
	MaxNIHours          decimal.Decimal `json:"max_ni_hours"`
	PercentageNIHours   decimal.Decimal `json:"percentage_ni_hours"`
	NIRatePerHour       decimal.Decimal `json:"ni_rate_per_hour"`
	CashHoursMode       CashHoursMode   `json:"cash_hours_mode"`
	MinCashHours        decimal.Decimal `json:"min_cash_hours"`
	MaxCashHours        decimal.Decimal `json:"max_cash_hours"`
	PercentageCashHours decimal.Decimal `json:"percentage_cash_hours"`
	CashRatePerHour     decimal.Decimal `json:"cash_rate_per_hour"`
}

// Consideration is a named flat amount added to or deducted from a wage track.
type Consideration struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type OtherConsiderations struct {
	NIAdditions    []Consideration `json:"ni_additions"`
	NIDeductions   []Consideration `json:"ni_deductions"`
	CashAdditions  []Consideration `json:"cash_additions"`
	CashDeductions []Consideration `json:"cash_deductions"`
}

// PayStructure holds the per-employee wage rules. A copy is frozen into every
// pay run entry so later edits do not change computed history.
type PayStructure struct {
	DailyRates          DailyRates          `json:"daily_rates"`
	HourlyRates         HourlyRates         `json:"hourly_rates"`
	OtherConsiderations OtherConsiderations `json:"other_considerations"`
}

// Normalize replaces absent modes with NONE.
func (p *PayStructure) Normalize() {
	if p.DailyRates.NIDayMode == "" {
		p.DailyRates.NIDayMode = NIDayModeNone
	}
	if p.DailyRates.CashDayMode == "" {
		p.DailyRates.CashDayMode = CashDayModeNone
	}
	if p.HourlyRates.NIHoursMode == "" {
		p.HourlyRates.NIHoursMode = NIHoursModeNone
	}
	if p.HourlyRates.CashHoursMode == "" {
		p.HourlyRates.CashHoursMode = CashHoursModeNone
	}
}

func (p PayStructure) Validate() error {
	var errs validator.ValidationErrors

	if !p.DailyRates.NIDayMode.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "daily_rates.ni_day_mode", Message: "must be one of NONE, ALL, FIXED"})
	}
	if !p.DailyRates.CashDayMode.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "daily_rates.cash_day_mode", Message: "must be one of NONE, ALL"})
	}
	if !p.HourlyRates.NIHoursMode.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rates.ni_hours_mode", Message: "must be one of NONE, FIXED, ALL, CUSTOM"})
	}
	if !p.HourlyRates.CashHoursMode.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rates.cash_hours_mode", Message: "must be one of NONE, REST, ALL, CUSTOM"})
	}

	for _, amount := range p.amounts() {
		errs.NonNegative(amount.field, amount.value)
	}

	errs = append(errs, validateConsiderations("other_considerations.ni_additions", p.OtherConsiderations.NIAdditions)...)
	errs = append(errs, validateConsiderations("other_considerations.ni_deductions", p.OtherConsiderations.NIDeductions)...)
	errs = append(errs, validateConsiderations("other_considerations.cash_additions", p.OtherConsiderations.CashAdditions)...)
	errs = append(errs, validateConsiderations("other_considerations.cash_deductions", p.OtherConsiderations.CashDeductions)...)

	return errs.Err()
}

type namedAmount struct {
	field string
	value decimal.Decimal
}

func (p PayStructure) amounts() []namedAmount {
	dr, hr := p.DailyRates, p.HourlyRates
	return []namedAmount{
		{"daily_rates.ni_regular_days", dr.NIRegularDays},
		{"daily_rates.ni_regular_day_rate", dr.NIRegularDayRate},
		{"daily_rates.ni_extra_day_rate", dr.NIExtraDayRate},
		{"daily_rates.ni_extra_shift_rate", dr.NIExtraShiftRate},
		{"daily_rates.cash_regular_days", dr.CashRegularDays},
		{"daily_rates.cash_regular_day_rate", dr.CashRegularDayRate},
		{"daily_rates.cash_extra_day_rate", dr.CashExtraDayRate},
		{"daily_rates.cash_extra_shift_rate", dr.CashExtraShiftRate},
		{"hourly_rates.fixed_ni_hours", hr.FixedNIHours},
		{"hourly_rates.min_ni_hours", hr.MinNIHours},
		{"hourly_rates.max_ni_hours", hr.MaxNIHours},
		{"hourly_rates.percentage_ni_hours", hr.PercentageNIHours},
		{"hourly_rates.ni_rate_per_hour", hr.NIRatePerHour},
		{"hourly_rates.min_cash_hours", hr.MinCashHours},
		{"hourly_rates.max_cash_hours", hr.MaxCashHours},
		{"hourly_rates.percentage_cash_hours", hr.PercentageCashHours},
		{"hourly_rates.cash_rate_per_hour", hr.CashRatePerHour},
	}
}

func validateConsiderations(field string, items []Consideration) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for i, item := range items {
		prefix := fmt.Sprintf("%s[%d]", field, i)
		errs.Required(prefix+".name", item.Name)
		errs.NonNegative(prefix+".amount", item.Amount)
	}
	return errs
}

// ParsePayStructure decodes a stored pay structure, fills absent modes and
// rejects unknown ones.
func ParsePayStructure(raw []byte) (*PayStructure, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var p PayStructure
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode pay structure: %w", err)
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayStructure, err)
	}
	return &p, nil
}

// SumConsiderations totals the amounts of items.
func SumConsiderations(items []Consideration) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
