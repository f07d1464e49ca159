package payrun

import (
	"context"
	"time"
)

// PayRunRepository persists pay runs with their entries.
// All methods include organizationID to prevent cross-organization access.
type PayRunRepository interface {
	// LockOrganization serializes pay run mutations of one organization for the current transaction.
	LockOrganization(ctx context.Context, organizationID string) error
	// FindOverlapping returns pay runs of any status intersecting [start, end], excluding excludeID when set.
	FindOverlapping(ctx context.Context, organizationID string, start, end time.Time, excludeID *string) ([]PayRun, error)

	Create(ctx context.Context, run PayRun) (PayRun, error)
	GetByID(ctx context.Context, id string, organizationID string) (PayRun, error)
	List(ctx context.Context, organizationID string, filter PayRunFilter) ([]PayRun, int64, error)
	// Update replaces header fields and entries.
	Update(ctx context.Context, run PayRun) error
	// UpdateStatus moves a pay run from one status to another and returns ErrStatusChanged
	// when the stored status is no longer from.
	UpdateStatus(ctx context.Context, organizationID string, id string, from, to Status, at time.Time) error
	Delete(ctx context.Context, id string, organizationID string) error

	FindByTimesheetID(ctx context.Context, organizationID string, timesheetID string) ([]PayRun, error)
	FindByNICTaxID(ctx context.Context, organizationID string, nicTaxID string) ([]PayRun, error)
}
