package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/database"
)

var employeeColumns = []string{
	"id", "organization_id", "location_id", "first_name", "last_name", "preferred_name",
	"payroll_id", "pay_structure", "created_at", "updated_at",
}

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (employee.Employee, error) {
	employees, err := e.selectEmployees(ctx, psql.Select(employeeColumns...).
		From("employees").
		Where(squirrel.Eq{"id": id, "organization_id": organizationID}))
	if err != nil {
		return employee.Employee{}, err
	}
	if len(employees) == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employees[0], nil
}

// GetByIDs implements employee.EmployeeRepository. Unknown ids are skipped.
func (e *employeeRepositoryImpl) GetByIDs(ctx context.Context, organizationID string, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return e.selectEmployees(ctx, psql.Select(employeeColumns...).
		From("employees").
		Where(squirrel.Eq{"organization_id": organizationID, "id": ids}).
		OrderBy("id ASC"))
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	var payStructure []byte
	if newEmployee.PayStructure != nil {
		raw, err := json.Marshal(newEmployee.PayStructure)
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to encode pay structure: %w", err)
		}
		payStructure = raw
	}

	query := `
		INSERT INTO employees (
			id, organization_id, location_id, first_name, last_name, preferred_name, payroll_id, pay_structure
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	created := newEmployee
	err := q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.OrganizationID, newEmployee.LocationID, newEmployee.FirstName,
		newEmployee.LastName, newEmployee.PreferredName, newEmployee.PayrollID, payStructure,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == uniqueViolation && constraintName(err) == "uk_employee_payroll_id" {
			return employee.Employee{}, employee.ErrPayrollIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// ExistsByPayrollID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByPayrollID(ctx context.Context, organizationID string, payrollID string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM employees WHERE organization_id = $1 AND payroll_id = $2)
	`, organizationID, payrollID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll id: %w", err)
	}
	return exists, nil
}

func (e *employeeRepositoryImpl) selectEmployees(ctx context.Context, builder squirrel.SelectBuilder) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build employee query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var (
			emp employee.Employee
			raw []byte
		)
		err := rows.Scan(
			&emp.ID, &emp.OrganizationID, &emp.LocationID, &emp.FirstName, &emp.LastName,
			&emp.PreferredName, &emp.PayrollID, &raw, &emp.CreatedAt, &emp.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		if emp.PayStructure, err = employee.ParsePayStructure(raw); err != nil {
			return nil, fmt.Errorf("employee %s: %w", emp.ID, err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}
