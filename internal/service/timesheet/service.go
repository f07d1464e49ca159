package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

type TimesheetServiceImpl struct {
	txManager     shared.TxManager
	timesheetRepo timesheet.TimesheetRepository
	payRuns       timesheet.PayRunLink
}

func NewTimesheetService(
	txManager shared.TxManager,
	timesheetRepo timesheet.TimesheetRepository,
	payRuns timesheet.PayRunLink,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		txManager:     txManager,
		timesheetRepo: timesheetRepo,
		payRuns:       payRuns,
	}
}

// UpdateEntries replaces a timesheet's entries. Pay approved timesheets and
// timesheets referenced by an approved or paid pay run are read-only. Draft
// pay runs built from the timesheet are flagged for the employees whose lines
// changed.
func (s *TimesheetServiceImpl) UpdateEntries(ctx context.Context, req timesheet.UpdateEntriesRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	organizationID, _, err := shared.ClaimsFromContext(ctx)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	var updated timesheet.Timesheet
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.timesheetRepo.GetByID(txCtx, req.ID, organizationID)
		if err != nil {
			return err
		}
		if current.Status == timesheet.StatusPayApproved {
			return timesheet.ErrTimesheetPayApproved
		}

		locked, err := s.payRuns.IsTimesheetLocked(txCtx, organizationID, current.ID)
		if err != nil {
			return fmt.Errorf("failed to check pay run lock: %w", err)
		}
		if locked {
			return timesheet.ErrTimesheetLockedByPayRun
		}

		if err := s.timesheetRepo.UpdateEntries(txCtx, organizationID, current.ID, req.Entries); err != nil {
			return err
		}

		changed := changedEmployees(current.Entries, req.Entries)
		if len(changed) > 0 {
			if err := s.payRuns.MarkTimesheetEdited(txCtx, organizationID, current.ID, changed); err != nil {
				return fmt.Errorf("failed to flag pay runs: %w", err)
			}
		}

		updated = current
		updated.Entries = req.Entries
		updated.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	slog.InfoContext(ctx, "timesheet entries updated",
		slog.String("timesheet_id", updated.ID),
		slog.String("organization_id", organizationID),
		slog.Int("entries", len(updated.Entries)),
	)

	return timesheet.ToResponse(updated), nil
}

func (s *TimesheetServiceImpl) GetLockStatus(ctx context.Context, id string) (timesheet.LockStatusResponse, error) {
	organizationID, _, err := shared.ClaimsFromContext(ctx)
	if err != nil {
		return timesheet.LockStatusResponse{}, err
	}

	current, err := s.timesheetRepo.GetByID(ctx, id, organizationID)
	if err != nil {
		return timesheet.LockStatusResponse{}, err
	}

	locked, err := s.payRuns.IsTimesheetLocked(ctx, organizationID, current.ID)
	if err != nil {
		return timesheet.LockStatusResponse{}, err
	}

	return timesheet.LockStatusResponse{
		TimesheetID: current.ID,
		Locked:      locked || current.Status == timesheet.StatusPayApproved,
	}, nil
}

type line struct {
	hours, days, extraShifts, additions, deductions decimal.Decimal
	notes                                           string
}

func (l line) equal(o line) bool {
	return l.hours.Equal(o.hours) &&
		l.days.Equal(o.days) &&
		l.extraShifts.Equal(o.extraShifts) &&
		l.additions.Equal(o.additions) &&
		l.deductions.Equal(o.deductions) &&
		l.notes == o.notes
}

func linesByEmployee(entries []timesheet.Entry) map[string]line {
	lines := make(map[string]line, len(entries))
	for _, e := range entries {
		l := lines[e.EmployeeID]
		l.hours = l.hours.Add(e.HoursWorked)
		l.days = l.days.Add(e.DaysWorked)
		l.extraShifts = l.extraShifts.Add(e.ExtraShiftWorked)
		l.additions = l.additions.Add(e.OtherCashAddition)
		l.deductions = l.deductions.Add(e.OtherCashDeduction)
		l.notes += e.Notes
		lines[e.EmployeeID] = l
	}
	return lines
}

// changedEmployees returns, sorted, the employees whose summed line differs
// between before and after, including employees added or removed.
func changedEmployees(before, after []timesheet.Entry) []string {
	old := linesByEmployee(before)
	cur := linesByEmployee(after)

	var changed []string
	for id, l := range cur {
		if prev, ok := old[id]; !ok || !prev.equal(l) {
			changed = append(changed, id)
		}
	}
	for id := range old {
		if _, ok := cur[id]; !ok {
			changed = append(changed, id)
		}
	}
	sort.Strings(changed)
	return changed
}
