package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string, organizationID string) (employee.Employee, error) {
	defer r.store.read(ctx)()

	e, ok := r.store.employees[id]
	if !ok || e.OrganizationID != organizationID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// GetByIDs returns the employees found; missing ids are skipped.
func (r *employeeRepository) GetByIDs(ctx context.Context, organizationID string, ids []string) ([]employee.Employee, error) {
	defer r.store.read(ctx)()

	result := make([]employee.Employee, 0, len(ids))
	for _, id := range ids {
		e, ok := r.store.employees[id]
		if !ok || e.OrganizationID != organizationID {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	defer r.store.write(ctx)()

	if newEmployee.PayrollID != nil {
		for _, e := range r.store.employees {
			if e.OrganizationID == newEmployee.OrganizationID && e.PayrollID != nil && *e.PayrollID == *newEmployee.PayrollID {
				return employee.Employee{}, employee.ErrPayrollIDExists
			}
		}
	}

	now := time.Now()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	r.store.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (r *employeeRepository) ExistsByPayrollID(ctx context.Context, organizationID string, payrollID string) (bool, error) {
	defer r.store.read(ctx)()

	for _, e := range r.store.employees {
		if e.OrganizationID == organizationID && e.PayrollID != nil && *e.PayrollID == payrollID {
			return true, nil
		}
	}
	return false, nil
}
