package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/nictax"
)

type nicTaxRepository struct {
	store *Store
}

func NewNICTaxRepository(store *Store) nictax.NICTaxRepository {
	return &nicTaxRepository{store: store}
}

func (r *nicTaxRepository) GetByID(ctx context.Context, id string, organizationID string) (nictax.NICTax, error) {
	defer r.store.read(ctx)()

	n, ok := r.store.nicTax[id]
	if !ok || n.OrganizationID != organizationID {
		return nictax.NICTax{}, nictax.ErrNICTaxNotFound
	}
	return cloneNICTax(n), nil
}

func (r *nicTaxRepository) FindOverlapping(ctx context.Context, organizationID string, start, end time.Time, statuses []nictax.Status) ([]nictax.NICTax, error) {
	defer r.store.read(ctx)()

	var result []nictax.NICTax
	for _, n := range r.store.nicTax {
		if n.OrganizationID != organizationID || !hasStatus(statuses, n.Status) {
			continue
		}
		if n.StartDate.After(end) || n.EndDate.Before(start) {
			continue
		}
		result = append(result, cloneNICTax(n))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *nicTaxRepository) UpdateStatusMany(ctx context.Context, organizationID string, ids []string, from, to nictax.Status) (int64, error) {
	defer r.store.write(ctx)()

	var n int64
	for _, id := range ids {
		record, ok := r.store.nicTax[id]
		if !ok || record.OrganizationID != organizationID || record.Status != from {
			continue
		}
		record.Status = to
		record.UpdatedAt = time.Now()
		r.store.nicTax[id] = record
		n++
	}
	return n, nil
}

func (r *nicTaxRepository) Update(ctx context.Context, record nictax.NICTax) error {
	defer r.store.write(ctx)()

	existing, ok := r.store.nicTax[record.ID]
	if !ok || existing.OrganizationID != record.OrganizationID {
		return nictax.ErrNICTaxNotFound
	}
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = time.Now()
	r.store.nicTax[record.ID] = cloneNICTax(record)
	return nil
}
