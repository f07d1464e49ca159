package payrun

import (
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
	"github.com/shopspring/decimal"
)

// CalculateWage derives the E and D figures for one employee. It is pure and
// never fails: net wage is floored at zero, every other figure keeps its sign.
func CalculateWage(ps employee.PayStructure, ts TimesheetTotals, nt NICTaxTotals) payrun.Breakdown {
	dr := ps.DailyRates
	hr := ps.HourlyRates
	oc := ps.OtherConsiderations

	b := payrun.Breakdown{
		E1TotalHours:          ts.Hours,
		E2TotalDays:           ts.Days,
		E3TotalExtraShifts:    ts.ExtraShifts,
		E4OtherCashAdditions:  ts.OtherCashAdditions,
		E5OtherCashDeductions: ts.OtherCashDeductions,
		E6Notes:               ts.Notes,
		D1EmployerNIC:         nt.EmployerNIC,
		D2EmployeeNIC:         nt.EmployeeNIC,
		D3EmployeeTax:         nt.EmployeeTax,
	}

	// ========== DAYS ==========

	b.E7RegularDays = decimal.Zero
	if dr.NIDayMode == employee.NIDayModeAll {
		b.E7RegularDays = decimal.Min(dr.NIRegularDays, b.E2TotalDays)
	}
	if dr.CashDayMode == employee.CashDayModeAll {
		b.E7RegularDays = decimal.Max(b.E7RegularDays, decimal.Min(dr.CashRegularDays, b.E2TotalDays))
	}
	b.E8ExtraDays = decimal.Max(b.E2TotalDays.Sub(b.E7RegularDays), decimal.Zero)

	switch dr.NIDayMode {
	case employee.NIDayModeFixed:
		b.E9NIDayWage = dr.NIRegularDays.Mul(dr.NIRegularDayRate)
	case employee.NIDayModeAll:
		b.E9NIDayWage = b.E7RegularDays.Mul(dr.NIRegularDayRate)
	default:
		b.E9NIDayWage = decimal.Zero
	}

	switch dr.CashDayMode {
	case employee.CashDayModeAll:
		b.E10CashDayWage = b.E7RegularDays.Mul(dr.CashRegularDayRate).
			Add(b.E8ExtraDays.Mul(dr.CashExtraDayRate))
	default:
		b.E10CashDayWage = decimal.Zero
	}

	b.E11GrossDaysWage = b.E9NIDayWage.Add(b.E10CashDayWage)
	b.E12ExtraShiftWage = b.E3TotalExtraShifts.Mul(dr.NIExtraShiftRate.Add(dr.CashExtraShiftRate))

	// ========== HOURS ==========

	switch hr.NIHoursMode {
	case employee.NIHoursModeFixed:
		b.E13NIHours = hr.FixedNIHours
	case employee.NIHoursModeAll:
		b.E13NIHours = b.E1TotalHours
	case employee.NIHoursModeCustom:
		b.E13NIHours = clampHours(percentOf(b.E1TotalHours, hr.PercentageNIHours), hr.MinNIHours, hr.MaxNIHours)
	default:
		b.E13NIHours = decimal.Zero
	}

	switch hr.CashHoursMode {
	case employee.CashHoursModeRest:
		b.E14CashHours = decimal.Max(b.E1TotalHours.Sub(b.E13NIHours), decimal.Zero)
	case employee.CashHoursModeAll:
		b.E14CashHours = b.E1TotalHours
	case employee.CashHoursModeCustom:
		b.E14CashHours = clampHours(percentOf(b.E1TotalHours, hr.PercentageCashHours), hr.MinCashHours, hr.MaxCashHours)
	default:
		b.E14CashHours = decimal.Zero
	}

	b.E15NIHoursWage = b.E13NIHours.Mul(hr.NIRatePerHour)
	b.E16CashHoursWage = b.E14CashHours.Mul(hr.CashRatePerHour)
	b.E17GrossHoursWage = b.E15NIHoursWage.Add(b.E16CashHoursWage)

	// ========== TOTALS ==========

	b.E18GrossNIWage = b.E9NIDayWage.
		Add(b.E15NIHoursWage).
		Add(employee.SumConsiderations(oc.NIAdditions)).
		Sub(employee.SumConsiderations(oc.NIDeductions))

	b.E19GrossCashWage = b.E10CashDayWage.
		Add(b.E12ExtraShiftWage).
		Add(b.E16CashHoursWage).
		Add(employee.SumConsiderations(oc.CashAdditions)).
		Sub(employee.SumConsiderations(oc.CashDeductions))

	b.E20GrossWage = b.E18GrossNIWage.Add(b.E19GrossCashWage)
	b.E21NetNIWage = b.E18GrossNIWage.Sub(b.D2EmployeeNIC).Sub(b.D3EmployeeTax)
	b.E22NetCashWage = b.E19GrossCashWage.Add(b.E4OtherCashAdditions).Sub(b.E5OtherCashDeductions)
	b.E23NetWage = decimal.Max(b.E21NetNIWage.Add(b.E22NetCashWage), decimal.Zero)

	return b
}

func percentOf(v, percentage decimal.Decimal) decimal.Decimal {
	return v.Mul(percentage).Shift(-2)
}

// clampHours bounds v below by min and, when max is positive, above by max.
func clampHours(v, min, max decimal.Decimal) decimal.Decimal {
	if v.LessThan(min) {
		v = min
	}
	if max.IsPositive() && v.GreaterThan(max) {
		v = max
	}
	return v
}
