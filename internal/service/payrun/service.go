package payrun

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/nictax"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/sse"
	"github.com/google/uuid"
)

const (
	EventCreated      = "payrun.created"
	EventUpdated      = "payrun.updated"
	EventRecalculated = "payrun.recalculated"
	EventApproved     = "payrun.approved"
	EventReverted     = "payrun.reverted"
	EventPaid         = "payrun.paid"
	EventDeleted      = "payrun.deleted"
	EventNeedsUpdate  = "payrun.needs_update"
)

type PayRunServiceImpl struct {
	txManager     shared.TxManager
	payRunRepo    payrun.PayRunRepository
	timesheetRepo timesheet.TimesheetRepository
	nicTaxRepo    nictax.NICTaxRepository
	employeeRepo  employee.EmployeeRepository
	hub           *sse.Hub
	locks         *orgLocker
	maxWorkers    int
	now           func() time.Time
}

// NewPayRunService wires the engine. maxWorkers bounds per-employee parallelism;
// a value below one uses the number of CPUs. hub may be nil.
func NewPayRunService(
	txManager shared.TxManager,
	payRunRepo payrun.PayRunRepository,
	timesheetRepo timesheet.TimesheetRepository,
	nicTaxRepo nictax.NICTaxRepository,
	employeeRepo employee.EmployeeRepository,
	hub *sse.Hub,
	maxWorkers int,
) *PayRunServiceImpl {
	if maxWorkers < 1 {
		maxWorkers = runtime.NumCPU()
	}
	return &PayRunServiceImpl{
		txManager:     txManager,
		payRunRepo:    payRunRepo,
		timesheetRepo: timesheetRepo,
		nicTaxRepo:    nicTaxRepo,
		employeeRepo:  employeeRepo,
		hub:           hub,
		locks:         newOrgLocker(),
		maxWorkers:    maxWorkers,
		now:           time.Now,
	}
}

// ========== PAY RUNS ==========

func (s *PayRunServiceImpl) Create(ctx context.Context, req payrun.CreatePayRunRequest) (payrun.PayRunResponse, error) {
	if err := req.Validate(); err != nil {
		return payrun.PayRunResponse{}, err
	}

	organizationID, userID, err := shared.ClaimsFromContext(ctx)
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	start, end := req.Window()

	unlock := s.locks.Lock(organizationID)
	defer unlock()

	var created payrun.PayRun
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payRunRepo.LockOrganization(txCtx, organizationID); err != nil {
			return err
		}
		if err := s.checkOverlap(txCtx, organizationID, start, end, nil); err != nil {
			return err
		}

		entries, total, err := s.computeEntries(txCtx, organizationID, start, end)
		if err != nil {
			return err
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate pay run id: %w", err)
		}

		run := payrun.PayRun{
			ID:             id.String(),
			OrganizationID: organizationID,
			Name:           req.Name,
			Notes:          req.Notes,
			StartDate:      start,
			EndDate:        end,
			Status:         payrun.StatusDraft,
			TotalNetPay:    total,
			Entries:        entries,
		}
		if userID != "" {
			run.CreatedBy = &userID
		}

		created, err = s.payRunRepo.Create(txCtx, run)
		return err
	})
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	slog.InfoContext(ctx, "pay run created",
		slog.String("pay_run_id", created.ID),
		slog.String("organization_id", organizationID),
		slog.Int("entries", len(created.Entries)),
		slog.String("total_net_pay", created.TotalNetPay.String()),
	)
	s.publish(EventCreated, created)

	return payrun.ToResponse(created, true), nil
}

func (s *PayRunServiceImpl) GetByID(ctx context.Context, id string) (payrun.PayRunResponse, error) {
	organizationID, _, err := shared.ClaimsFromContext(ctx)
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	run, err := s.payRunRepo.GetByID(ctx, id, organizationID)
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	return payrun.ToResponse(run, true), nil
}

func (s *PayRunServiceImpl) List(ctx context.Context, filter payrun.PayRunFilter) (payrun.ListPayRunResponse, error) {
	if err := filter.Validate(); err != nil {
		return payrun.ListPayRunResponse{}, err
	}

	organizationID, _, err := shared.ClaimsFromContext(ctx)
	if err != nil {
		return payrun.ListPayRunResponse{}, err
	}

	runs, total, err := s.payRunRepo.List(ctx, organizationID, filter)
	if err != nil {
		return payrun.ListPayRunResponse{}, err
	}

	data := make([]payrun.PayRunResponse, 0, len(runs))
	for _, run := range runs {
		data = append(data, payrun.ToResponse(run, false))
	}

	return payrun.ListPayRunResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Update edits descriptive fields. Only draft pay runs are editable.
func (s *PayRunServiceImpl) Update(ctx context.Context, req payrun.UpdatePayRunRequest) (payrun.PayRunResponse, error) {
	if err := req.Validate(); err != nil {
		return payrun.PayRunResponse{}, err
	}

	organizationID, _, err := shared.ClaimsFromContext(ctx)
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	unlock := s.locks.Lock(organizationID)
	defer unlock()

	var updated payrun.PayRun
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payRunRepo.LockOrganization(txCtx, organizationID); err != nil {
			return err
		}

		run, err := s.payRunRepo.GetByID(txCtx, req.ID, organizationID)
		if err != nil {
			return err
		}
		if run.Status != payrun.StatusDraft {
			return fmt.Errorf("%w: status is %s", payrun.ErrPayRunImmutable, run.Status)
		}

		if req.Name != nil {
			run.Name = *req.Name
		}
		if req.Notes != nil {
			run.Notes = req.Notes
		}
		run.UpdatedAt = s.now()

		if err := s.payRunRepo.Update(txCtx, run); err != nil {
			return err
		}
		updated = run
		return nil
	})
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	s.publish(EventUpdated, updated)
	return payrun.ToResponse(updated, true), nil
}

// Delete removes a draft pay run.
func (s *PayRunServiceImpl) Delete(ctx context.Context, id string) error {
	organizationID, _, err := shared.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(organizationID)
	defer unlock()

	var deleted payrun.PayRun
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payRunRepo.LockOrganization(txCtx, organizationID); err != nil {
			return err
		}

		run, err := s.payRunRepo.GetByID(txCtx, id, organizationID)
		if err != nil {
			return err
		}
		if run.Status != payrun.StatusDraft {
			return fmt.Errorf("%w: status is %s", payrun.ErrPayRunNotDraft, run.Status)
		}

		deleted = run
		return s.payRunRepo.Delete(txCtx, id, organizationID)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "pay run deleted",
		slog.String("pay_run_id", id),
		slog.String("organization_id", organizationID),
	)
	s.publish(EventDeleted, deleted)
	return nil
}

// ========== LIFECYCLE ==========

// Recalculate rebuilds every entry of a draft pay run from current source data
// and clears all update flags.
func (s *PayRunServiceImpl) Recalculate(ctx context.Context, id string) (payrun.PayRunResponse, error) {
	organizationID, _, err := shared.ClaimsFromContext(ctx)
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	unlock := s.locks.Lock(organizationID)
	defer unlock()

	var recalculated payrun.PayRun
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payRunRepo.LockOrganization(txCtx, organizationID); err != nil {
			return err
		}

		run, err := s.payRunRepo.GetByID(txCtx, id, organizationID)
		if err != nil {
			return err
		}
		if run.Status != payrun.StatusDraft {
			return fmt.Errorf("%w: status is %s", payrun.ErrPayRunNotDraft, run.Status)
		}

		entries, total, err := s.computeEntries(txCtx, organizationID, run.StartDate, run.EndDate)
		if err != nil {
			return err
		}

		run.Entries = entries
		run.TotalNetPay = total
		run.NeedsRecalculation = false
		run.UpdatedAt = s.now()

		if err := s.payRunRepo.Update(txCtx, run); err != nil {
			return err
		}
		recalculated = run
		return nil
	})
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	slog.InfoContext(ctx, "pay run recalculated",
		slog.String("pay_run_id", id),
		slog.String("organization_id", organizationID),
		slog.Int("entries", len(recalculated.Entries)),
		slog.String("total_net_pay", recalculated.TotalNetPay.String()),
	)
	s.publish(EventRecalculated, recalculated)

	return payrun.ToResponse(recalculated, true), nil
}

// Approve moves Draft to Approved and marks approved source documents Pay Approved.
func (s *PayRunServiceImpl) Approve(ctx context.Context, id string) (payrun.PayRunResponse, error) {
	return s.transition(ctx, id, payrun.StatusApproved, EventApproved, func(txCtx context.Context, run payrun.PayRun) error {
		return s.cascadeSources(txCtx, run, timesheet.StatusApproved, timesheet.StatusPayApproved, nictax.StatusApproved, nictax.StatusPayApproved)
	})
}

// Revert moves Approved back to Draft and returns source documents to Approved.
func (s *PayRunServiceImpl) Revert(ctx context.Context, id string) (payrun.PayRunResponse, error) {
	return s.transition(ctx, id, payrun.StatusDraft, EventReverted, func(txCtx context.Context, run payrun.PayRun) error {
		return s.cascadeSources(txCtx, run, timesheet.StatusPayApproved, timesheet.StatusApproved, nictax.StatusPayApproved, nictax.StatusApproved)
	})
}

// MarkPaid moves Approved to the terminal Paid status.
func (s *PayRunServiceImpl) MarkPaid(ctx context.Context, id string) (payrun.PayRunResponse, error) {
	return s.transition(ctx, id, payrun.StatusPaid, EventPaid, nil)
}

type cascadeFunc func(ctx context.Context, run payrun.PayRun) error

func (s *PayRunServiceImpl) transition(ctx context.Context, id string, to payrun.Status, event string, cascade cascadeFunc) (payrun.PayRunResponse, error) {
	organizationID, _, err := shared.ClaimsFromContext(ctx)
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	unlock := s.locks.Lock(organizationID)
	defer unlock()

	var (
		from    payrun.Status
		updated payrun.PayRun
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payRunRepo.LockOrganization(txCtx, organizationID); err != nil {
			return err
		}

		run, err := s.payRunRepo.GetByID(txCtx, id, organizationID)
		if err != nil {
			return err
		}
		if err := run.Status.CheckTransition(to); err != nil {
			return err
		}
		from = run.Status

		if cascade != nil {
			if err := cascade(txCtx, run); err != nil {
				return err
			}
		}

		if err := s.payRunRepo.UpdateStatus(txCtx, organizationID, id, from, to, s.now()); err != nil {
			return err
		}

		updated, err = s.payRunRepo.GetByID(txCtx, id, organizationID)
		return err
	})
	if err != nil {
		return payrun.PayRunResponse{}, err
	}

	slog.InfoContext(ctx, "pay run status changed",
		slog.String("pay_run_id", id),
		slog.String("organization_id", organizationID),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	s.publish(event, updated)

	return payrun.ToResponse(updated, true), nil
}

// cascadeSources moves the pay run's source documents between statuses.
// Documents not currently in the from status are left alone.
func (s *PayRunServiceImpl) cascadeSources(ctx context.Context, run payrun.PayRun, tsFrom, tsTo timesheet.Status, ntFrom, ntTo nictax.Status) error {
	if ids := run.TimesheetIDs(); len(ids) > 0 {
		n, err := s.timesheetRepo.UpdateStatusMany(ctx, run.OrganizationID, ids, tsFrom, tsTo)
		if err != nil {
			return fmt.Errorf("failed to update timesheet statuses: %w", err)
		}
		slog.DebugContext(ctx, "timesheets cascaded",
			slog.String("pay_run_id", run.ID),
			slog.String("to", string(tsTo)),
			slog.Int64("updated", n),
		)
	}

	if ids := run.NICTaxIDs(); len(ids) > 0 {
		n, err := s.nicTaxRepo.UpdateStatusMany(ctx, run.OrganizationID, ids, ntFrom, ntTo)
		if err != nil {
			return fmt.Errorf("failed to update nic/tax statuses: %w", err)
		}
		slog.DebugContext(ctx, "nic/tax records cascaded",
			slog.String("pay_run_id", run.ID),
			slog.String("to", string(ntTo)),
			slog.Int64("updated", n),
		)
	}

	return nil
}

// ========== SOURCE EDIT HOOKS ==========

// IsTimesheetLocked reports whether an Approved or Paid pay run references the timesheet.
// Called inside a caller's transaction it joins it, so the organization lock
// is held until that transaction ends.
func (s *PayRunServiceImpl) IsTimesheetLocked(ctx context.Context, organizationID, timesheetID string) (bool, error) {
	locked := false
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payRunRepo.LockOrganization(txCtx, organizationID); err != nil {
			return err
		}

		runs, err := s.payRunRepo.FindByTimesheetID(txCtx, organizationID, timesheetID)
		if err != nil {
			return err
		}
		for _, run := range runs {
			if run.Status == payrun.StatusApproved || run.Status == payrun.StatusPaid {
				locked = true
				return nil
			}
		}
		return nil
	})
	return locked, err
}

// MarkTimesheetEdited flags draft pay runs built from the timesheet.
func (s *PayRunServiceImpl) MarkTimesheetEdited(ctx context.Context, organizationID, timesheetID string, employeeIDs []string) error {
	return s.markEdited(ctx, organizationID, employeeIDs,
		func(txCtx context.Context) ([]payrun.PayRun, error) {
			return s.payRunRepo.FindByTimesheetID(txCtx, organizationID, timesheetID)
		},
		func(e payrun.Entry) bool { return e.ReferencesTimesheet(timesheetID) },
	)
}

// MarkNICTaxEdited flags draft pay runs built from the NIC/Tax record.
func (s *PayRunServiceImpl) MarkNICTaxEdited(ctx context.Context, organizationID, nicTaxID string, employeeIDs []string) error {
	return s.markEdited(ctx, organizationID, employeeIDs,
		func(txCtx context.Context) ([]payrun.PayRun, error) {
			return s.payRunRepo.FindByNICTaxID(txCtx, organizationID, nicTaxID)
		},
		func(e payrun.Entry) bool { return e.ReferencesNICTax(nicTaxID) },
	)
}

// markEdited sets needsUpdate on entries of draft pay runs built from the edited
// document. With employeeIDs set, only those employees' entries are flagged and
// employees the pay run has never seen still mark it for recalculation. An
// empty employeeIDs flags every entry referencing the document.
func (s *PayRunServiceImpl) markEdited(
	ctx context.Context,
	organizationID string,
	employeeIDs []string,
	find func(ctx context.Context) ([]payrun.PayRun, error),
	references func(payrun.Entry) bool,
) error {
	var flagged []payrun.PayRun

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.payRunRepo.LockOrganization(txCtx, organizationID); err != nil {
			return err
		}

		runs, err := find(txCtx)
		if err != nil {
			return err
		}

		for _, run := range runs {
			if run.Status != payrun.StatusDraft {
				continue
			}

			changed := false
			for i := range run.Entries {
				entry := &run.Entries[i]
				matches := references(*entry)
				if len(employeeIDs) > 0 {
					matches = containsString(employeeIDs, entry.EmployeeID)
				}
				if matches && !entry.NeedsUpdate {
					entry.NeedsUpdate = true
					changed = true
				}
			}
			for _, employeeID := range employeeIDs {
				if !run.HasEmployee(employeeID) && !run.NeedsRecalculation {
					changed = true
				}
			}
			if !changed {
				continue
			}

			run.NeedsRecalculation = true
			run.UpdatedAt = s.now()
			if err := s.payRunRepo.Update(txCtx, run); err != nil {
				return err
			}
			flagged = append(flagged, run)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, run := range flagged {
		slog.InfoContext(ctx, "pay run flagged for recalculation",
			slog.String("pay_run_id", run.ID),
			slog.String("organization_id", organizationID),
		)
		s.publish(EventNeedsUpdate, run)
	}
	return nil
}

// ========== HELPERS ==========

func (s *PayRunServiceImpl) checkOverlap(ctx context.Context, organizationID string, start, end time.Time, excludeID *string) error {
	existing, err := s.payRunRepo.FindOverlapping(ctx, organizationID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check overlapping pay runs: %w", err)
	}
	if len(existing) > 0 {
		return &payrun.OverlapError{ExistingID: existing[0].ID, ExistingName: existing[0].Name}
	}
	return nil
}

func (s *PayRunServiceImpl) publish(event string, run payrun.PayRun) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(sse.Event{
		OrganizationID: run.OrganizationID,
		Event:          event,
		Data:           payrun.ToResponse(run, false),
	})
}

func containsString(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
