package nictax

import (
	"context"
	"time"
)

type NICTaxRepository interface {
	GetByID(ctx context.Context, id string, organizationID string) (NICTax, error)
	FindOverlapping(ctx context.Context, organizationID string, start, end time.Time, statuses []Status) ([]NICTax, error)
	UpdateStatusMany(ctx context.Context, organizationID string, ids []string, from, to Status) (int64, error)
	Update(ctx context.Context, record NICTax) error
}
