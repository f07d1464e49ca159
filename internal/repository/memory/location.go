package memory

import (
	"context"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/location"
)

type locationRepository struct {
	store *Store
}

func NewLocationRepository(store *Store) location.LocationRepository {
	return &locationRepository{store: store}
}

func (r *locationRepository) GetByCode(ctx context.Context, organizationID string, code string) (location.Location, error) {
	defer r.store.read(ctx)()

	for _, l := range r.store.locations {
		if l.OrganizationID == organizationID && l.Code == code {
			return l, nil
		}
	}
	return location.Location{}, location.ErrLocationNotFound
}
