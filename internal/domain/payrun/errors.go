package payrun

import (
	"fmt"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
)

var (
	ErrPayRunNotFound      = fmt.Errorf("%w: pay run not found", shared.ErrNotFound)
	ErrOverlappingPayRun   = fmt.Errorf("%w: pay run overlaps an existing pay run", shared.ErrConflict)
	ErrStatusChanged       = fmt.Errorf("%w: pay run status changed concurrently", shared.ErrConflict)
	ErrMissingPayStructure = fmt.Errorf("%w: employee has no pay structure", shared.ErrPrecondition)
	ErrEmployeeMissing     = fmt.Errorf("%w: employee referenced by source records does not exist", shared.ErrPrecondition)
	ErrInvalidTransition   = fmt.Errorf("%w: invalid pay run status transition", shared.ErrPrecondition)
	ErrPayRunNotDraft      = fmt.Errorf("%w: pay run is not in draft", shared.ErrPrecondition)
	ErrPayRunImmutable     = fmt.Errorf("%w: pay run can only be edited in draft", shared.ErrImmutability)
	ErrPayRunPaid          = fmt.Errorf("%w: paid pay run cannot change status", shared.ErrPrecondition)
)

// OverlapError names the pay run a new window collides with.
type OverlapError struct {
	ExistingID   string
	ExistingName string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("pay run overlaps existing pay run %q (%s)", e.ExistingName, e.ExistingID)
}

func (e *OverlapError) Unwrap() error { return ErrOverlappingPayRun }

// MissingPayStructureError names the employee blocking a calculation.
type MissingPayStructureError struct {
	EmployeeID   string
	EmployeeName string
}

func (e *MissingPayStructureError) Error() string {
	return fmt.Sprintf("employee %s (%s) has no pay structure", e.EmployeeName, e.EmployeeID)
}

func (e *MissingPayStructureError) Unwrap() error { return ErrMissingPayStructure }

// TransitionError reports a status move the state machine does not allow.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move pay run from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
