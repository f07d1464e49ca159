package employee

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/validator"
)

// ========== BATCH CREATE DTOs ==========

type CreateEmployeeRequest struct {
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	PreferredName *string       `json:"preferred_name,omitempty"`
	PayrollID     *string       `json:"payroll_id,omitempty"`
	LocationCode  *string       `json:"location_code,omitempty"`
	PayStructure  *PayStructure `json:"pay_structure,omitempty"`
}

type BatchCreateEmployeeRequest struct {
	Employees []CreateEmployeeRequest `json:"employees"`
}

func (r *BatchCreateEmployeeRequest) Validate() error {
	if len(r.Employees) == 0 {
		return ErrEmptyBatch
	}

	var errs validator.ValidationErrors
	for i := range r.Employees {
		item := &r.Employees[i]
		prefix := fmt.Sprintf("employees[%d]", i)

		if validator.IsEmpty(item.FirstName) {
			errs = append(errs, validator.ValidationError{Field: prefix + ".first_name", Message: "is required"})
		}
		if validator.IsEmpty(item.LastName) {
			errs = append(errs, validator.ValidationError{Field: prefix + ".last_name", Message: "is required"})
		}
		if item.PayStructure != nil {
			item.PayStructure.Normalize()
			if err := item.PayStructure.Validate(); err != nil {
				if fieldErrs, ok := err.(validator.ValidationErrors); ok {
					errs = append(errs, fieldErrs.WithPrefix(prefix+".pay_structure")...)
				}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID             string        `json:"id"`
	OrganizationID string        `json:"organization_id"`
	LocationID     *string       `json:"location_id,omitempty"`
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	PreferredName  *string       `json:"preferred_name,omitempty"`
	DisplayName    string        `json:"display_name"`
	PayrollID      *string       `json:"payroll_id,omitempty"`
	PayStructure   *PayStructure `json:"pay_structure,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		LocationID:     e.LocationID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		PreferredName:  e.PreferredName,
		DisplayName:    e.DisplayName(),
		PayrollID:      e.PayrollID,
		PayStructure:   e.PayStructure,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
