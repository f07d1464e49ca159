// Package memory provides in-memory repositories for tests and local development.
package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/location"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/nictax"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
)

// Store holds every collection behind one lock. A transaction holds the write
// lock for its whole duration and restores a snapshot when fn fails.
type Store struct {
	mu         sync.RWMutex
	payRuns    map[string]payrun.PayRun
	timesheets map[string]timesheet.Timesheet
	nicTax     map[string]nictax.NICTax
	employees  map[string]employee.Employee
	locations  map[string]location.Location
}

func NewStore() *Store {
	return &Store{
		payRuns:    make(map[string]payrun.PayRun),
		timesheets: make(map[string]timesheet.Timesheet),
		nicTax:     make(map[string]nictax.NICTax),
		employees:  make(map[string]employee.Employee),
		locations:  make(map[string]location.Location),
	}
}

type txCtxKey struct{}

// RunInTx implements shared.TxManager. Nested calls join the outer transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txCtxKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txCtxKey{}).(*Store)
	return ok && owner == s
}

// read and write take the lock unless ctx already runs inside this store's transaction.
func (s *Store) read(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	payRuns    map[string]payrun.PayRun
	timesheets map[string]timesheet.Timesheet
	nicTax     map[string]nictax.NICTax
	employees  map[string]employee.Employee
	locations  map[string]location.Location
}

// snapshot copies the maps. Stored values are cloned on every write, so
// sharing them between the snapshot and the live maps is safe.
func (s *Store) snapshot() snapshot {
	return snapshot{
		payRuns:    copyMap(s.payRuns),
		timesheets: copyMap(s.timesheets),
		nicTax:     copyMap(s.nicTax),
		employees:  copyMap(s.employees),
		locations:  copyMap(s.locations),
	}
}

func (s *Store) restore(snap snapshot) {
	s.payRuns = snap.payRuns
	s.timesheets = snap.timesheets
	s.nicTax = snap.nicTax
	s.employees = snap.employees
	s.locations = snap.locations
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ========== SEEDING ==========

// PutTimesheet stores or replaces a timesheet.
func (s *Store) PutTimesheet(t timesheet.Timesheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timesheets[t.ID] = cloneTimesheet(t)
}

// PutNICTax stores or replaces a NIC/Tax record.
func (s *Store) PutNICTax(n nictax.NICTax) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nicTax[n.ID] = cloneNICTax(n)
}

// PutEmployee stores or replaces an employee.
func (s *Store) PutEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

// PutLocation stores or replaces a location.
func (s *Store) PutLocation(l location.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
}

// ========== CLONING ==========

func cloneTimesheet(t timesheet.Timesheet) timesheet.Timesheet {
	t.Entries = append([]timesheet.Entry{}, t.Entries...)
	return t
}

func cloneNICTax(n nictax.NICTax) nictax.NICTax {
	n.Entries = append([]nictax.Entry{}, n.Entries...)
	return n
}

func clonePayRun(p payrun.PayRun) payrun.PayRun {
	entries := make([]payrun.Entry, len(p.Entries))
	for i, e := range p.Entries {
		e.RawTimesheetIDs = append([]string{}, e.RawTimesheetIDs...)
		e.RawNICTaxIDs = append([]string{}, e.RawNICTaxIDs...)
		e.ContributingTimesheets = append([]payrun.ContributingTimesheet{}, e.ContributingTimesheets...)
		e.Breakdown.TimesheetAllocations = append([]payrun.TimesheetAllocation{}, e.Breakdown.TimesheetAllocations...)
		entries[i] = e
	}
	p.Entries = entries
	return p
}
