package nictax

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/validator"
)

type UpdateNICTaxRequest struct {
	ID      string   `json:"-"`
	Entries *[]Entry `json:"entries,omitempty"`
	Status  *Status  `json:"status,omitempty"`
}

func (r *UpdateNICTaxRequest) Validate() error {
	var errs validator.ValidationErrors

	errs.Required("id", r.ID)
	if r.Entries == nil && r.Status == nil {
		errs.Add("entries", "entries or status is required")
	}
	if r.Status != nil && !r.Status.IsValid() {
		errs.Add("status", "must be one of Draft, Approved, Pay Approved")
	}
	if r.Entries != nil {
		for i, e := range *r.Entries {
			prefix := fmt.Sprintf("entries[%d]", i)
			errs.UUID(prefix+".employee_id", e.EmployeeID)
			errs.NonNegative(prefix+".ees_nic", e.EesNIC)
			errs.NonNegative(prefix+".er_nic", e.ErNIC)
			errs.NonNegative(prefix+".ees_tax", e.EesTax)
		}
	}

	return errs.Err()
}

type NICTaxResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Status    Status    `json:"status"`
	Entries   []Entry   `json:"entries"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToResponse(n NICTax) NICTaxResponse {
	return NICTaxResponse{
		ID:        n.ID,
		Name:      n.Name,
		StartDate: n.StartDate.Format(validator.DateLayout),
		EndDate:   n.EndDate.Format(validator.DateLayout),
		Status:    n.Status,
		Entries:   n.Entries,
		UpdatedAt: n.UpdatedAt,
	}
}
