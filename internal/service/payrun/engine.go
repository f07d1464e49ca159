package payrun

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/nictax"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// computeEntries loads every source document overlapping the window and builds
// one entry per referenced employee. Nothing is written; the caller persists.
func (s *PayRunServiceImpl) computeEntries(ctx context.Context, organizationID string, start, end time.Time) ([]payrun.Entry, decimal.Decimal, error) {
	sheets, err := s.timesheetRepo.FindOverlapping(ctx, organizationID, start, end, timesheet.PayableStatuses)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to load timesheets: %w", err)
	}

	records, err := s.nicTaxRepo.FindOverlapping(ctx, organizationID, start, end, nictax.PayableStatuses)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to load nic/tax records: %w", err)
	}

	employeeIDs := collectEmployeeIDs(sheets, records)
	if len(employeeIDs) == 0 {
		return []payrun.Entry{}, decimal.Zero, nil
	}

	employees, err := s.employeeRepo.GetByIDs(ctx, organizationID, employeeIDs)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to load employees: %w", err)
	}

	byID := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	// Every employee must be payable before any work starts.
	for _, id := range employeeIDs {
		emp, ok := byID[id]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", payrun.ErrEmployeeMissing, id)
		}
		if emp.PayStructure == nil {
			return nil, decimal.Zero, &payrun.MissingPayStructureError{EmployeeID: emp.ID, EmployeeName: emp.DisplayName()}
		}
	}

	entries := make([]payrun.Entry, len(employeeIDs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxWorkers)

	for i, id := range employeeIDs {
		i, id := i, id
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			entries[i] = buildEntry(byID[id], sheets, records)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, decimal.Zero, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].EmployeeName != entries[j].EmployeeName {
			return entries[i].EmployeeName < entries[j].EmployeeName
		}
		return entries[i].EmployeeID < entries[j].EmployeeID
	})

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.NetWage)
	}

	return entries, total, nil
}

// buildEntry runs aggregation, calculation and allocation for one employee.
// It touches no shared state and is safe to run concurrently.
func buildEntry(emp employee.Employee, sheets []timesheet.Timesheet, records []nictax.NICTax) payrun.Entry {
	ps := snapshotPayStructure(*emp.PayStructure)

	ts := AggregateTimesheets(emp.ID, sheets)
	nt := AggregateNICTax(emp.ID, records)

	breakdown := CalculateWage(ps, ts, nt)
	breakdown.TimesheetAllocations = AllocateWage(breakdown, ts.Contributions)

	rawNICTaxIDs := nt.NICTaxIDs
	if rawNICTaxIDs == nil {
		rawNICTaxIDs = []string{}
	}
	contributions := ts.Contributions
	if contributions == nil {
		contributions = []payrun.ContributingTimesheet{}
	}

	return payrun.Entry{
		EmployeeID:             emp.ID,
		EmployeeName:           emp.DisplayName(),
		PayrollID:              emp.PayrollID,
		PayStructure:           ps,
		RawTimesheetIDs:        ts.TimesheetIDs(),
		RawNICTaxIDs:           rawNICTaxIDs,
		NetWage:                breakdown.E23NetWage,
		Breakdown:              breakdown,
		ContributingTimesheets: contributions,
	}
}

// snapshotPayStructure copies the consideration lists so the entry does not
// share backing arrays with the employee record.
func snapshotPayStructure(ps employee.PayStructure) employee.PayStructure {
	out := ps
	out.OtherConsiderations = employee.OtherConsiderations{
		NIAdditions:    append([]employee.Consideration{}, ps.OtherConsiderations.NIAdditions...),
		NIDeductions:   append([]employee.Consideration{}, ps.OtherConsiderations.NIDeductions...),
		CashAdditions:  append([]employee.Consideration{}, ps.OtherConsiderations.CashAdditions...),
		CashDeductions: append([]employee.Consideration{}, ps.OtherConsiderations.CashDeductions...),
	}
	return out
}

// collectEmployeeIDs returns the sorted union of employees across all documents.
func collectEmployeeIDs(sheets []timesheet.Timesheet, records []nictax.NICTax) []string {
	seen := make(map[string]struct{})
	for _, sheet := range sheets {
		for _, id := range sheet.EmployeeIDs() {
			seen[id] = struct{}{}
		}
	}
	for _, record := range records {
		for _, id := range record.EmployeeIDs() {
			seen[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
