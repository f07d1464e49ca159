package employee

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/location"
)

// locationCache memoizes code lookups, misses included, for one request.
// It is not safe for concurrent use.
type locationCache struct {
	repo           location.LocationRepository
	organizationID string
	found          map[string]location.Location
	missing        map[string]struct{}
	lookups        int
}

func newLocationCache(repo location.LocationRepository, organizationID string) *locationCache {
	return &locationCache{
		repo:           repo,
		organizationID: organizationID,
		found:          make(map[string]location.Location),
		missing:        make(map[string]struct{}),
	}
}

func (c *locationCache) Resolve(ctx context.Context, code string) (location.Location, error) {
	if loc, ok := c.found[code]; ok {
		return loc, nil
	}
	if _, ok := c.missing[code]; ok {
		return location.Location{}, location.ErrLocationNotFound
	}

	c.lookups++
	loc, err := c.repo.GetByCode(ctx, c.organizationID, code)
	if err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			c.missing[code] = struct{}{}
		}
		return location.Location{}, err
	}

	c.found[code] = loc
	return loc, nil
}

// Lookups returns how many times the repository was queried.
func (c *locationCache) Lookups() int {
	return c.lookups
}
