package payrun

import (
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== PAY RUN DTOs ==========

type CreatePayRunRequest struct {
	Name      string  `json:"pay_run_name"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Notes     *string `json:"notes,omitempty"`
}

func (r *CreatePayRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "pay_run_name", Message: "is required"})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	if startOK && endOK && start.After(end) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be on or after start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Window returns the parsed period. Call after Validate.
func (r *CreatePayRunRequest) Window() (time.Time, time.Time) {
	start, _ := time.Parse(validator.DateLayout, r.StartDate)
	end, _ := time.Parse(validator.DateLayout, r.EndDate)
	return start, end
}

type UpdatePayRunRequest struct {
	ID    string  `json:"-"`
	Name  *string `json:"pay_run_name,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

func (r *UpdatePayRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "pay_run_name", Message: "cannot be empty"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayRunFilter struct {
	Status *Status `json:"status,omitempty"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

func (f *PayRunFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !f.Status.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of Draft, Approved, Paid"})
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayRunResponse struct {
	ID                 string          `json:"id"`
	OrganizationID     string          `json:"organization_id"`
	Name               string          `json:"pay_run_name"`
	Notes              *string         `json:"notes,omitempty"`
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
	Status             Status          `json:"status"`
	NeedsRecalculation bool            `json:"needs_recalculation"`
	TotalNetPay        decimal.Decimal `json:"total_net_pay"`
	EmployeeCount      int             `json:"employee_count"`
	Entries            []Entry         `json:"entries,omitempty"`
	ApprovedAt         *time.Time      `json:"approved_at,omitempty"`
	PaidAt             *time.Time      `json:"paid_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type ListPayRunResponse struct {
	Data       []PayRunResponse `json:"data"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

// ToResponse maps a pay run; entries are included only when withEntries is set.
func ToResponse(p PayRun, withEntries bool) PayRunResponse {
	resp := PayRunResponse{
		ID:                 p.ID,
		OrganizationID:     p.OrganizationID,
		Name:               p.Name,
		Notes:              p.Notes,
		StartDate:          p.StartDate.Format(validator.DateLayout),
		EndDate:            p.EndDate.Format(validator.DateLayout),
		Status:             p.Status,
		NeedsRecalculation: p.NeedsRecalculation,
		TotalNetPay:        p.TotalNetPay,
		EmployeeCount:      len(p.Entries),
		ApprovedAt:         p.ApprovedAt,
		PaidAt:             p.PaidAt,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if withEntries {
		resp.Entries = p.Entries
	}
	return resp
}
