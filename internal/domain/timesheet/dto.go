package timesheet

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/validator"
)

type UpdateEntriesRequest struct {
	ID      string  `json:"-"`
	Entries []Entry `json:"entries"`
}

func (r *UpdateEntriesRequest) Validate() error {
	var errs validator.ValidationErrors

	errs.Required("id", r.ID)
	for i, e := range r.Entries {
		prefix := fmt.Sprintf("entries[%d]", i)
		errs.UUID(prefix+".employee_id", e.EmployeeID)
		errs.NonNegative(prefix+".hours_worked", e.HoursWorked)
		errs.NonNegative(prefix+".days_worked", e.DaysWorked)
		errs.NonNegative(prefix+".extra_shift_worked", e.ExtraShiftWorked)
		errs.NonNegative(prefix+".other_cash_addition", e.OtherCashAddition)
		errs.NonNegative(prefix+".other_cash_deduction", e.OtherCashDeduction)
	}

	return errs.Err()
}

type TimesheetResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	LocationID *string   `json:"location_id,omitempty"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Status     Status    `json:"status"`
	Entries    []Entry   `json:"entries"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type LockStatusResponse struct {
	TimesheetID string `json:"timesheet_id"`
	Locked      bool   `json:"locked"`
}

func ToResponse(t Timesheet) TimesheetResponse {
	return TimesheetResponse{
		ID:         t.ID,
		Name:       t.Name,
		LocationID: t.LocationID,
		StartDate:  t.StartDate.Format(validator.DateLayout),
		EndDate:    t.EndDate.Format(validator.DateLayout),
		Status:     t.Status,
		Entries:    t.Entries,
		UpdatedAt:  t.UpdatedAt,
	}
}
