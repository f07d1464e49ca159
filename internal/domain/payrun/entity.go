package payrun

import (
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// PayRun is the computed payroll for one organization over [StartDate, EndDate].
type PayRun struct {
	ID                 string
	OrganizationID     string
	Name               string
	Notes              *string
	StartDate          time.Time
	EndDate            time.Time
	Status             Status
	NeedsRecalculation bool
	TotalNetPay        decimal.Decimal
	Entries            []Entry
	CreatedBy          *string
	ApprovedAt         *time.Time
	PaidAt             *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Entry is the result of the engine for one employee.
type Entry struct {
	EmployeeID             string                  `json:"employee_id"`
	EmployeeName           string                  `json:"employee_name"`
	PayrollID              *string                 `json:"payroll_id,omitempty"`
	PayStructure           employee.PayStructure   `json:"pay_structure"`
	RawTimesheetIDs        []string                `json:"raw_timesheet_ids"`
	RawNICTaxIDs           []string                `json:"raw_nic_tax_ids"`
	NetWage                decimal.Decimal         `json:"net_wage"`
	Breakdown              Breakdown               `json:"breakdown"`
	NeedsUpdate            bool                    `json:"needs_update"`
	ContributingTimesheets []ContributingTimesheet `json:"contributing_timesheets"`
}

// ContributingTimesheet is the employee's own line on one source timesheet.
type ContributingTimesheet struct {
	TimesheetID        string          `json:"timesheet_id"`
	TimesheetName      string          `json:"timesheet_name"`
	LocationID         *string         `json:"location_id,omitempty"`
	HoursWorked        decimal.Decimal `json:"hours_worked"`
	DaysWorked         decimal.Decimal `json:"days_worked"`
	ExtraShiftWorked   decimal.Decimal `json:"extra_shift_worked"`
	OtherCashAddition  decimal.Decimal `json:"other_cash_addition"`
	OtherCashDeduction decimal.Decimal `json:"other_cash_deduction"`
	Notes              string          `json:"notes,omitempty"`
}

// ReferencesTimesheet reports whether the entry was built from the timesheet.
func (e Entry) ReferencesTimesheet(timesheetID string) bool {
	return containsID(e.RawTimesheetIDs, timesheetID)
}

// ReferencesNICTax reports whether the entry was built from the NIC/Tax record.
func (e Entry) ReferencesNICTax(nicTaxID string) bool {
	return containsID(e.RawNICTaxIDs, nicTaxID)
}

// TimesheetIDs returns the distinct timesheets referenced by all entries.
func (p PayRun) TimesheetIDs() []string {
	var ids []string
	for _, e := range p.Entries {
		ids = appendUnique(ids, e.RawTimesheetIDs...)
	}
	return ids
}

// NICTaxIDs returns the distinct NIC/Tax records referenced by all entries.
func (p PayRun) NICTaxIDs() []string {
	var ids []string
	for _, e := range p.Entries {
		ids = appendUnique(ids, e.RawNICTaxIDs...)
	}
	return ids
}

// HasEmployee reports whether the pay run has an entry for the employee.
func (p PayRun) HasEmployee(employeeID string) bool {
	for _, e := range p.Entries {
		if e.EmployeeID == employeeID {
			return true
		}
	}
	return false
}

// Overlaps reports whether the inclusive window [start, end] intersects the pay run.
func (p PayRun) Overlaps(start, end time.Time) bool {
	return !p.StartDate.After(end) && !p.EndDate.Before(start)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func appendUnique(dst []string, ids ...string) []string {
	for _, id := range ids {
		if !containsID(dst, id) {
			dst = append(dst, id)
		}
	}
	return dst
}
