package timesheet

import "context"

type TimesheetService interface {
	UpdateEntries(ctx context.Context, req UpdateEntriesRequest) (TimesheetResponse, error)
	GetLockStatus(ctx context.Context, id string) (LockStatusResponse, error)
}

// PayRunLink is the view of the pay run engine a timesheet needs when edited.
type PayRunLink interface {
	IsTimesheetLocked(ctx context.Context, organizationID, timesheetID string) (bool, error)
	MarkTimesheetEdited(ctx context.Context, organizationID, timesheetID string, employeeIDs []string) error
}
