package payrun

import (
	"testing"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/nictax"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateTimesheets(t *testing.T) {
	site := "loc-1"
	sheets := []timesheet.Timesheet{
		{
			ID:         "ts-1",
			Name:       "Kitchen",
			LocationID: &site,
			Entries: []timesheet.Entry{
				{EmployeeID: "emp-a", HoursWorked: dec("5"), DaysWorked: dec("1"), Notes: "opening"},
				{EmployeeID: "emp-b", HoursWorked: dec("9")},
				{EmployeeID: "emp-a", HoursWorked: dec("3"), OtherCashAddition: dec("4"), Notes: "  "},
			},
		},
		{
			ID:      "ts-2",
			Name:    "Bar",
			Entries: []timesheet.Entry{{EmployeeID: "emp-b", HoursWorked: dec("2")}},
		},
		{
			ID:   "ts-3",
			Name: "Floor",
			Entries: []timesheet.Entry{
				{EmployeeID: "emp-a", ExtraShiftWorked: dec("1"), OtherCashDeduction: dec("1.5"), Notes: "cover"},
			},
		},
	}

	totals := AggregateTimesheets("emp-a", sheets)

	assertDecimal(t, "8", totals.Hours)
	assertDecimal(t, "1", totals.Days)
	assertDecimal(t, "1", totals.ExtraShifts)
	assertDecimal(t, "4", totals.OtherCashAdditions)
	assertDecimal(t, "1.5", totals.OtherCashDeductions)
	assert.Equal(t, "opening, cover", totals.Notes)
	assert.Equal(t, []string{"ts-1", "ts-3"}, totals.TimesheetIDs())

	require.Len(t, totals.Contributions, 2)
	assert.Equal(t, "Kitchen", totals.Contributions[0].TimesheetName)
	assert.Equal(t, &site, totals.Contributions[0].LocationID)
	assertDecimal(t, "8", totals.Contributions[0].HoursWorked)
	assert.Equal(t, "opening", totals.Contributions[0].Notes)
}

func TestAggregateTimesheets_EmployeeAbsent(t *testing.T) {
	sheets := []timesheet.Timesheet{{ID: "ts-1", Entries: []timesheet.Entry{{EmployeeID: "emp-b", HoursWorked: dec("9")}}}}

	totals := AggregateTimesheets("emp-a", sheets)

	assert.True(t, totals.Hours.IsZero())
	assert.Empty(t, totals.Contributions)
	assert.Empty(t, totals.TimesheetIDs())
	assert.Equal(t, "", totals.Notes)
}

func TestAggregateNICTax(t *testing.T) {
	records := []nictax.NICTax{
		{ID: "nt-1", Entries: []nictax.Entry{
			{EmployeeID: "emp-a", EesNIC: dec("2"), ErNIC: dec("3"), EesTax: dec("1")},
			{EmployeeID: "emp-b", EesNIC: dec("9")},
		}},
		{ID: "nt-2", Entries: []nictax.Entry{{EmployeeID: "emp-b", EesTax: dec("4")}}},
		{ID: "nt-3", Entries: []nictax.Entry{{EmployeeID: "emp-a", EesNIC: dec("0.5"), ErNIC: dec("0.25")}}},
	}

	totals := AggregateNICTax("emp-a", records)

	assertDecimal(t, "2.5", totals.EmployeeNIC)
	assertDecimal(t, "3.25", totals.EmployerNIC)
	assertDecimal(t, "1", totals.EmployeeTax)
	assert.Equal(t, []string{"nt-1", "nt-3"}, totals.NICTaxIDs)
}
