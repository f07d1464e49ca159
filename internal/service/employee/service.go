package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/location"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
	"github.com/google/uuid"
)

type EmployeeServiceImpl struct {
	txManager    shared.TxManager
	employeeRepo employee.EmployeeRepository
	locationRepo location.LocationRepository
}

func NewEmployeeService(
	txManager shared.TxManager,
	employeeRepo employee.EmployeeRepository,
	locationRepo location.LocationRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		txManager:    txManager,
		employeeRepo: employeeRepo,
		locationRepo: locationRepo,
	}
}

// BatchCreate creates every employee in one transaction. Location codes are
// resolved through a cache that lives only for this call.
func (s *EmployeeServiceImpl) BatchCreate(ctx context.Context, req employee.BatchCreateEmployeeRequest) ([]employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	organizationID, _, err := shared.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	locations := newLocationCache(s.locationRepo, organizationID)
	created := make([]employee.EmployeeResponse, 0, len(req.Employees))

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for i, item := range req.Employees {
			var locationID *string
			if item.LocationCode != nil && *item.LocationCode != "" {
				loc, err := locations.Resolve(txCtx, *item.LocationCode)
				if err != nil {
					if errors.Is(err, location.ErrLocationNotFound) {
						return fmt.Errorf("%w: employees[%d] location_code %q", employee.ErrLocationCodeNotFound, i, *item.LocationCode)
					}
					return err
				}
				locationID = &loc.ID
			}

			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate employee id: %w", err)
			}

			emp, err := s.employeeRepo.Create(txCtx, employee.Employee{
				ID:             id.String(),
				OrganizationID: organizationID,
				LocationID:     locationID,
				FirstName:      item.FirstName,
				LastName:       item.LastName,
				PreferredName:  item.PreferredName,
				PayrollID:      item.PayrollID,
				PayStructure:   item.PayStructure,
			})
			if err != nil {
				return fmt.Errorf("failed to create employees[%d]: %w", i, err)
			}
			created = append(created, employee.ToResponse(emp))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "employees batch created",
		slog.String("organization_id", organizationID),
		slog.Int("count", len(created)),
		slog.Int("location_lookups", locations.Lookups()),
	)

	return created, nil
}

func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	organizationID, _, err := shared.ClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id, organizationID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.ToResponse(emp), nil
}
