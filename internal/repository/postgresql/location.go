package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/location"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type locationRepositoryImpl struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.LocationRepository {
	return &locationRepositoryImpl{db: db}
}

// GetByCode implements location.LocationRepository.
func (r *locationRepositoryImpl) GetByCode(ctx context.Context, organizationID string, code string) (location.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, code, name, created_at
		FROM locations
		WHERE organization_id = $1 AND code = $2
	`

	var l location.Location
	err := q.QueryRow(ctx, query, organizationID, code).Scan(&l.ID, &l.OrganizationID, &l.Code, &l.Name, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.Location{}, location.ErrLocationNotFound
		}
		return location.Location{}, fmt.Errorf("failed to get location %s: %w", code, err)
	}
	return l, nil
}
