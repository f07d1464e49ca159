package employee

import (
	"fmt"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
)

var (
	ErrEmployeeNotFound     = fmt.Errorf("%w: employee not found", shared.ErrNotFound)
	ErrInvalidPayStructure  = fmt.Errorf("%w: invalid pay structure", shared.ErrValidation)
	ErrPayrollIDExists      = fmt.Errorf("%w: payroll id already exists", shared.ErrConflict)
	ErrLocationCodeNotFound = fmt.Errorf("%w: location code not found", shared.ErrValidation)
	ErrEmptyBatch           = fmt.Errorf("%w: at least one employee is required", shared.ErrValidation)
)
