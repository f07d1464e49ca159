package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
)

type timesheetRepository struct {
	store *Store
}

func NewTimesheetRepository(store *Store) timesheet.TimesheetRepository {
	return &timesheetRepository{store: store}
}

func (r *timesheetRepository) GetByID(ctx context.Context, id string, organizationID string) (timesheet.Timesheet, error) {
	defer r.store.read(ctx)()

	t, ok := r.store.timesheets[id]
	if !ok || t.OrganizationID != organizationID {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	return cloneTimesheet(t), nil
}

func (r *timesheetRepository) FindOverlapping(ctx context.Context, organizationID string, start, end time.Time, statuses []timesheet.Status) ([]timesheet.Timesheet, error) {
	defer r.store.read(ctx)()

	var result []timesheet.Timesheet
	for _, t := range r.store.timesheets {
		if t.OrganizationID != organizationID || !hasStatus(statuses, t.Status) {
			continue
		}
		if t.StartDate.After(end) || t.EndDate.Before(start) {
			continue
		}
		result = append(result, cloneTimesheet(t))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *timesheetRepository) UpdateStatusMany(ctx context.Context, organizationID string, ids []string, from, to timesheet.Status) (int64, error) {
	defer r.store.write(ctx)()

	var n int64
	for _, id := range ids {
		t, ok := r.store.timesheets[id]
		if !ok || t.OrganizationID != organizationID || t.Status != from {
			continue
		}
		t.Status = to
		t.UpdatedAt = time.Now()
		r.store.timesheets[id] = t
		n++
	}
	return n, nil
}

func (r *timesheetRepository) UpdateEntries(ctx context.Context, organizationID string, id string, entries []timesheet.Entry) error {
	defer r.store.write(ctx)()

	t, ok := r.store.timesheets[id]
	if !ok || t.OrganizationID != organizationID {
		return timesheet.ErrTimesheetNotFound
	}
	t.Entries = append([]timesheet.Entry{}, entries...)
	t.UpdatedAt = time.Now()
	r.store.timesheets[id] = t
	return nil
}

func hasStatus[S comparable](statuses []S, s S) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}
