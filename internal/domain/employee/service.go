package employee

import "context"

type EmployeeService interface {
	BatchCreate(ctx context.Context, req BatchCreateEmployeeRequest) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
}
