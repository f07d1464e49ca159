package payrun

import "github.com/shopspring/decimal"

// Breakdown carries every intermediate figure of a wage calculation.
// E fields are wage figures, D fields statutory inputs.
type Breakdown struct {
	E1TotalHours          decimal.Decimal `json:"E1_totalHours"`
	E2TotalDays           decimal.Decimal `json:"E2_totalDays"`
	E3TotalExtraShifts    decimal.Decimal `json:"E3_totalExtraShifts"`
	E4OtherCashAdditions  decimal.Decimal `json:"E4_otherCashAdditions"`
	E5OtherCashDeductions decimal.Decimal `json:"E5_otherCashDeductions"`
	E6Notes               string          `json:"E6_notes"`
	E7RegularDays         decimal.Decimal `json:"E7_regularDays"`
	E8ExtraDays           decimal.Decimal `json:"E8_extraDays"`
	E9NIDayWage           decimal.Decimal `json:"E9_niDayWage"`
	E10CashDayWage        decimal.Decimal `json:"E10_cashDayWage"`
	E11GrossDaysWage      decimal.Decimal `json:"E11_grossDaysWage"`
	E12ExtraShiftWage     decimal.Decimal `json:"E12_extraShiftWage"`
	E13NIHours            decimal.Decimal `json:"E13_niHours"`
	E14CashHours          decimal.Decimal `json:"E14_cashHours"`
	E15NIHoursWage        decimal.Decimal `json:"E15_niHoursWage"`
	E16CashHoursWage      decimal.Decimal `json:"E16_cashHoursWage"`
	E17GrossHoursWage     decimal.Decimal `json:"E17_grossHoursWage"`
	E18GrossNIWage        decimal.Decimal `json:"E18_grossNIWage"`
	E19GrossCashWage      decimal.Decimal `json:"E19_grossCashWage"`
	E20GrossWage          decimal.Decimal `json:"E20_grossWage"`
	E21NetNIWage          decimal.Decimal `json:"E21_netNIWage"`
	E22NetCashWage        decimal.Decimal `json:"E22_netCashWage"`
	E23NetWage            decimal.Decimal `json:"E23_netWage"`

	D1EmployerNIC decimal.Decimal `json:"D1_employerNIC"`
	D2EmployeeNIC decimal.Decimal `json:"D2_employeeNIC"`
	D3EmployeeTax decimal.Decimal `json:"D3_employeeTax"`

	TimesheetAllocations []TimesheetAllocation `json:"timesheet_allocations"`
}

// TimesheetAllocation apportions a wage onto one contributing timesheet.
type TimesheetAllocation struct {
	TimesheetID   string  `json:"timesheet_id"`
	TimesheetName string  `json:"timesheet_name"`
	LocationID    *string `json:"location_id,omitempty"`

	F1HoursRatio          decimal.Decimal `json:"F1_hrsRatio"`
	F2DaysRatio           decimal.Decimal `json:"F2_daysRatio"`
	F3ShiftRatio          decimal.Decimal `json:"F3_shiftRatio"`
	F4AllocHoursWage      decimal.Decimal `json:"F4_allocHoursWage"`
	F5AllocDaysWage       decimal.Decimal `json:"F5_allocDaysWage"`
	F6AllocExtraShiftWage decimal.Decimal `json:"F6_allocExtraShiftWage"`
	F7WageRatio           decimal.Decimal `json:"F7_wageRatio"`
	F8AllocGrossNIWage    decimal.Decimal `json:"F8_allocGrossNIWage"`
	F9AllocGrossCashWage  decimal.Decimal `json:"F9_allocGrossCashWage"`
	F10AllocEerNIC        decimal.Decimal `json:"F10_allocEerNIC"`
	F11AllocWageCost      decimal.Decimal `json:"F11_allocWageCost"`
}
