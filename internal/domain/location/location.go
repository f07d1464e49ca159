package location

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
)

type Location struct {
	ID             string
	OrganizationID string
	Code           string
	Name           string
	CreatedAt      time.Time
}

var ErrLocationNotFound = fmt.Errorf("%w: location not found", shared.ErrNotFound)

type LocationRepository interface {
	GetByCode(ctx context.Context, organizationID string, code string) (Location, error)
}
