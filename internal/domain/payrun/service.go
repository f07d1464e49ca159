package payrun

import "context"

type PayRunService interface {
	Create(ctx context.Context, req CreatePayRunRequest) (PayRunResponse, error)
	GetByID(ctx context.Context, id string) (PayRunResponse, error)
	List(ctx context.Context, filter PayRunFilter) (ListPayRunResponse, error)
	Update(ctx context.Context, req UpdatePayRunRequest) (PayRunResponse, error)
	Delete(ctx context.Context, id string) error

	Recalculate(ctx context.Context, id string) (PayRunResponse, error)
	Approve(ctx context.Context, id string) (PayRunResponse, error)
	Revert(ctx context.Context, id string) (PayRunResponse, error)
	MarkPaid(ctx context.Context, id string) (PayRunResponse, error)

	IsTimesheetLocked(ctx context.Context, organizationID, timesheetID string) (bool, error)
	MarkTimesheetEdited(ctx context.Context, organizationID, timesheetID string, employeeIDs []string) error
	MarkNICTaxEdited(ctx context.Context, organizationID, nicTaxID string, employeeIDs []string) error
}
