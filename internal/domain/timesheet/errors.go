package timesheet

import (
	"fmt"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
)

var (
	ErrTimesheetNotFound       = fmt.Errorf("%w: timesheet not found", shared.ErrNotFound)
	ErrTimesheetPayApproved    = fmt.Errorf("%w: timesheet is pay approved", shared.ErrImmutability)
	ErrTimesheetLockedByPayRun = fmt.Errorf("%w: timesheet is referenced by an approved pay run", shared.ErrImmutability)
)
