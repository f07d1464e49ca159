package employee

import "context"

// EmployeeRepository is scoped by organization on every call.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, organizationID string) (Employee, error)
	GetByIDs(ctx context.Context, organizationID string, ids []string) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	ExistsByPayrollID(ctx context.Context, organizationID string, payrollID string) (bool, error)
}
