package payrun

import (
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
	"github.com/shopspring/decimal"
)

// AllocateWage apportions a computed breakdown onto each contributing timesheet
// in proportion to the hours, days and extra shifts recorded there. A zero
// denominator yields a zero ratio.
func AllocateWage(b payrun.Breakdown, contributions []payrun.ContributingTimesheet) []payrun.TimesheetAllocation {
	allocations := make([]payrun.TimesheetAllocation, 0, len(contributions))
	wageBase := b.E11GrossDaysWage.Add(b.E17GrossHoursWage).Add(b.E12ExtraShiftWage)

	for _, c := range contributions {
		a := payrun.TimesheetAllocation{
			TimesheetID:   c.TimesheetID,
			TimesheetName: c.TimesheetName,
			LocationID:    c.LocationID,
		}

		a.F1HoursRatio = ratio(c.HoursWorked, b.E1TotalHours)
		a.F2DaysRatio = ratio(c.DaysWorked, b.E2TotalDays)
		a.F3ShiftRatio = ratio(c.ExtraShiftWorked, b.E3TotalExtraShifts)

		a.F4AllocHoursWage = b.E17GrossHoursWage.Mul(a.F1HoursRatio)
		a.F5AllocDaysWage = b.E11GrossDaysWage.Mul(a.F2DaysRatio)
		a.F6AllocExtraShiftWage = b.E12ExtraShiftWage.Mul(a.F3ShiftRatio)

		a.F7WageRatio = ratio(a.F4AllocHoursWage.Add(a.F5AllocDaysWage).Add(a.F6AllocExtraShiftWage), wageBase)

		a.F8AllocGrossNIWage = b.E18GrossNIWage.Mul(a.F7WageRatio)
		a.F9AllocGrossCashWage = b.E19GrossCashWage.Mul(a.F7WageRatio).
			Add(c.OtherCashAddition.Sub(c.OtherCashDeduction))
		a.F10AllocEerNIC = b.D1EmployerNIC.Mul(a.F7WageRatio)
		a.F11AllocWageCost = a.F8AllocGrossNIWage.Add(a.F9AllocGrossCashWage).Add(a.F10AllocEerNIC)

		allocations = append(allocations, a)
	}

	return allocations
}

func ratio(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total)
}
