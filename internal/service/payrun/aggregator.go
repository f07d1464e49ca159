package payrun

import (
	"strings"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/nictax"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// TimesheetTotals is one employee's work summed over every timesheet in a window.
type TimesheetTotals struct {
	Hours               decimal.Decimal
	Days                decimal.Decimal
	ExtraShifts         decimal.Decimal
	OtherCashAdditions  decimal.Decimal
	OtherCashDeductions decimal.Decimal
	Notes               string

	// Contributions holds the employee's line per timesheet, in timesheet order.
	Contributions []payrun.ContributingTimesheet
}

// TimesheetIDs lists the timesheets the employee appears on.
func (t TimesheetTotals) TimesheetIDs() []string {
	ids := make([]string, 0, len(t.Contributions))
	for _, c := range t.Contributions {
		ids = append(ids, c.TimesheetID)
	}
	return ids
}

// NICTaxTotals is one employee's statutory figures summed over every NIC/Tax record in a window.
type NICTaxTotals struct {
	EmployerNIC decimal.Decimal
	EmployeeNIC decimal.Decimal
	EmployeeTax decimal.Decimal
	NICTaxIDs   []string
}

// AggregateTimesheets sums the employee's entries across sheets. A sheet without
// an entry for the employee contributes nothing; several entries on one sheet
// are summed into a single contribution.
func AggregateTimesheets(employeeID string, sheets []timesheet.Timesheet) TimesheetTotals {
	var totals TimesheetTotals
	var notes []string

	for _, sheet := range sheets {
		var (
			found bool
			line  = payrun.ContributingTimesheet{
				TimesheetID:   sheet.ID,
				TimesheetName: sheet.Name,
				LocationID:    sheet.LocationID,
			}
			lineNotes []string
		)

		for _, e := range sheet.Entries {
			if e.EmployeeID != employeeID {
				continue
			}
			found = true
			line.HoursWorked = line.HoursWorked.Add(e.HoursWorked)
			line.DaysWorked = line.DaysWorked.Add(e.DaysWorked)
			line.ExtraShiftWorked = line.ExtraShiftWorked.Add(e.ExtraShiftWorked)
			line.OtherCashAddition = line.OtherCashAddition.Add(e.OtherCashAddition)
			line.OtherCashDeduction = line.OtherCashDeduction.Add(e.OtherCashDeduction)
			if n := strings.TrimSpace(e.Notes); n != "" {
				lineNotes = append(lineNotes, n)
			}
		}
		if !found {
			continue
		}

		line.Notes = strings.Join(lineNotes, ", ")
		notes = append(notes, lineNotes...)

		totals.Hours = totals.Hours.Add(line.HoursWorked)
		totals.Days = totals.Days.Add(line.DaysWorked)
		totals.ExtraShifts = totals.ExtraShifts.Add(line.ExtraShiftWorked)
		totals.OtherCashAdditions = totals.OtherCashAdditions.Add(line.OtherCashAddition)
		totals.OtherCashDeductions = totals.OtherCashDeductions.Add(line.OtherCashDeduction)
		totals.Contributions = append(totals.Contributions, line)
	}

	totals.Notes = strings.Join(notes, ", ")
	return totals
}

// AggregateNICTax sums the employee's statutory figures across records.
func AggregateNICTax(employeeID string, records []nictax.NICTax) NICTaxTotals {
	var totals NICTaxTotals

	for _, record := range records {
		found := false
		for _, e := range record.Entries {
			if e.EmployeeID != employeeID {
				continue
			}
			found = true
			totals.EmployerNIC = totals.EmployerNIC.Add(e.ErNIC)
			totals.EmployeeNIC = totals.EmployeeNIC.Add(e.EesNIC)
			totals.EmployeeTax = totals.EmployeeTax.Add(e.EesTax)
		}
		if found {
			totals.NICTaxIDs = append(totals.NICTaxIDs, record.ID)
		}
	}

	return totals
}
