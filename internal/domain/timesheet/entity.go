package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a timesheet document.
type Status string

const (
	StatusDraft       Status = "Draft"
	StatusApproved    Status = "Approved"
	StatusPayApproved Status = "Pay Approved"
)

// PayableStatuses are the statuses a pay run reads source documents in.
var PayableStatuses = []Status{StatusDraft, StatusApproved, StatusPayApproved}

type Timesheet struct {
	ID             string
	OrganizationID string
	Name           string
	LocationID     *string
	StartDate      time.Time
	EndDate        time.Time
	Status         Status
	Entries        []Entry
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Entry is one employee's work recorded on a timesheet.
type Entry struct {
	EmployeeID         string          `json:"employee_id"`
	HoursWorked        decimal.Decimal `json:"hours_worked"`
	DaysWorked         decimal.Decimal `json:"days_worked"`
	ExtraShiftWorked   decimal.Decimal `json:"extra_shift_worked"`
	OtherCashAddition  decimal.Decimal `json:"other_cash_addition"`
	OtherCashDeduction decimal.Decimal `json:"other_cash_deduction"`
	Notes              string          `json:"notes,omitempty"`
}

// EmployeeIDs returns the distinct employees on the timesheet in entry order.
func (t Timesheet) EmployeeIDs() []string {
	seen := make(map[string]struct{}, len(t.Entries))
	ids := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		if _, ok := seen[e.EmployeeID]; ok {
			continue
		}
		seen[e.EmployeeID] = struct{}{}
		ids = append(ids, e.EmployeeID)
	}
	return ids
}
