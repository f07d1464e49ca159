package timesheet

import (
	"context"
	"time"
)

type TimesheetRepository interface {
	GetByID(ctx context.Context, id string, organizationID string) (Timesheet, error)
	// FindOverlapping returns timesheets whose [start,end] intersects the window, ordered by start date.
	FindOverlapping(ctx context.Context, organizationID string, start, end time.Time, statuses []Status) ([]Timesheet, error)
	// UpdateStatusMany moves the given timesheets from one status to another. Rows not in from are left untouched.
	UpdateStatusMany(ctx context.Context, organizationID string, ids []string, from, to Status) (int64, error)
	UpdateEntries(ctx context.Context, organizationID string, id string, entries []Entry) error
}
