package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
)

type payRunRepository struct {
	store *Store
}

func NewPayRunRepository(store *Store) payrun.PayRunRepository {
	return &payRunRepository{store: store}
}

// LockOrganization is a no-op: the store lock already serializes transactions.
func (r *payRunRepository) LockOrganization(ctx context.Context, organizationID string) error {
	return nil
}

func (r *payRunRepository) FindOverlapping(ctx context.Context, organizationID string, start, end time.Time, excludeID *string) ([]payrun.PayRun, error) {
	defer r.store.read(ctx)()

	var result []payrun.PayRun
	for _, run := range r.store.payRuns {
		if run.OrganizationID != organizationID {
			continue
		}
		if excludeID != nil && run.ID == *excludeID {
			continue
		}
		if run.Overlaps(start, end) {
			result = append(result, clonePayRun(run))
		}
	}
	sortPayRuns(result)
	return result, nil
}

func (r *payRunRepository) Create(ctx context.Context, run payrun.PayRun) (payrun.PayRun, error) {
	defer r.store.write(ctx)()

	for _, existing := range r.store.payRuns {
		if existing.OrganizationID == run.OrganizationID && existing.Overlaps(run.StartDate, run.EndDate) {
			return payrun.PayRun{}, &payrun.OverlapError{ExistingID: existing.ID, ExistingName: existing.Name}
		}
	}

	now := time.Now()
	run.CreatedAt = now
	run.UpdatedAt = now
	r.store.payRuns[run.ID] = clonePayRun(run)
	return clonePayRun(run), nil
}

func (r *payRunRepository) GetByID(ctx context.Context, id string, organizationID string) (payrun.PayRun, error) {
	defer r.store.read(ctx)()

	run, ok := r.store.payRuns[id]
	if !ok || run.OrganizationID != organizationID {
		return payrun.PayRun{}, payrun.ErrPayRunNotFound
	}
	return clonePayRun(run), nil
}

func (r *payRunRepository) List(ctx context.Context, organizationID string, filter payrun.PayRunFilter) ([]payrun.PayRun, int64, error) {
	defer r.store.read(ctx)()

	var matched []payrun.PayRun
	for _, run := range r.store.payRuns {
		if run.OrganizationID != organizationID {
			continue
		}
		if filter.Status != nil && run.Status != *filter.Status {
			continue
		}
		matched = append(matched, run)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].StartDate.Equal(matched[j].StartDate) {
			return matched[i].StartDate.After(matched[j].StartDate)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return []payrun.PayRun{}, total, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]payrun.PayRun, 0, end-offset)
	for _, run := range matched[offset:end] {
		page = append(page, clonePayRun(run))
	}
	return page, total, nil
}

func (r *payRunRepository) Update(ctx context.Context, run payrun.PayRun) error {
	defer r.store.write(ctx)()

	existing, ok := r.store.payRuns[run.ID]
	if !ok || existing.OrganizationID != run.OrganizationID {
		return payrun.ErrPayRunNotFound
	}
	run.CreatedAt = existing.CreatedAt
	run.Status = existing.Status
	run.ApprovedAt = existing.ApprovedAt
	run.PaidAt = existing.PaidAt
	r.store.payRuns[run.ID] = clonePayRun(run)
	return nil
}

func (r *payRunRepository) UpdateStatus(ctx context.Context, organizationID string, id string, from, to payrun.Status, at time.Time) error {
	defer r.store.write(ctx)()

	run, ok := r.store.payRuns[id]
	if !ok || run.OrganizationID != organizationID {
		return payrun.ErrPayRunNotFound
	}
	if run.Status != from {
		return payrun.ErrStatusChanged
	}

	run.Status = to
	run.UpdatedAt = at
	switch to {
	case payrun.StatusApproved:
		run.ApprovedAt = &at
	case payrun.StatusDraft:
		run.ApprovedAt = nil
	case payrun.StatusPaid:
		run.PaidAt = &at
	}
	r.store.payRuns[id] = run
	return nil
}

func (r *payRunRepository) Delete(ctx context.Context, id string, organizationID string) error {
	defer r.store.write(ctx)()

	run, ok := r.store.payRuns[id]
	if !ok || run.OrganizationID != organizationID {
		return payrun.ErrPayRunNotFound
	}
	delete(r.store.payRuns, id)
	return nil
}

func (r *payRunRepository) FindByTimesheetID(ctx context.Context, organizationID string, timesheetID string) ([]payrun.PayRun, error) {
	return r.findReferencing(ctx, organizationID, func(e payrun.Entry) bool {
		return e.ReferencesTimesheet(timesheetID)
	})
}

func (r *payRunRepository) FindByNICTaxID(ctx context.Context, organizationID string, nicTaxID string) ([]payrun.PayRun, error) {
	return r.findReferencing(ctx, organizationID, func(e payrun.Entry) bool {
		return e.ReferencesNICTax(nicTaxID)
	})
}

func (r *payRunRepository) findReferencing(ctx context.Context, organizationID string, match func(payrun.Entry) bool) ([]payrun.PayRun, error) {
	defer r.store.read(ctx)()

	var result []payrun.PayRun
	for _, run := range r.store.payRuns {
		if run.OrganizationID != organizationID {
			continue
		}
		for _, e := range run.Entries {
			if match(e) {
				result = append(result, clonePayRun(run))
				break
			}
		}
	}
	sortPayRuns(result)
	return result, nil
}

func sortPayRuns(runs []payrun.PayRun) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartDate.Equal(runs[j].StartDate) {
			return runs[i].StartDate.Before(runs[j].StartDate)
		}
		return runs[i].ID < runs[j].ID
	})
}
