package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/nictax"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/database"
)

var nicTaxColumns = []string{
	"id", "organization_id", "name", "start_date", "end_date", "status", "entries", "created_at", "updated_at",
}

type nicTaxRepositoryImpl struct {
	db *database.DB
}

func NewNICTaxRepository(db *database.DB) nictax.NICTaxRepository {
	return &nicTaxRepositoryImpl{db: db}
}

// GetByID implements nictax.NICTaxRepository.
func (r *nicTaxRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (nictax.NICTax, error) {
	records, err := r.selectRecords(ctx, psql.Select(nicTaxColumns...).
		From("nic_tax_records").
		Where(squirrel.Eq{"id": id, "organization_id": organizationID}))
	if err != nil {
		return nictax.NICTax{}, err
	}
	if len(records) == 0 {
		return nictax.NICTax{}, nictax.ErrNICTaxNotFound
	}
	return records[0], nil
}

// FindOverlapping implements nictax.NICTaxRepository.
func (r *nicTaxRepositoryImpl) FindOverlapping(ctx context.Context, organizationID string, start, end time.Time, statuses []nictax.Status) ([]nictax.NICTax, error) {
	return r.selectRecords(ctx, psql.Select(nicTaxColumns...).
		From("nic_tax_records").
		Where(squirrel.Eq{"organization_id": organizationID, "status": statusStrings(statuses)}).
		Where(squirrel.LtOrEq{"start_date": end}).
		Where(squirrel.GtOrEq{"end_date": start}).
		OrderBy("start_date ASC", "id ASC"))
}

// UpdateStatusMany implements nictax.NICTaxRepository.
func (r *nicTaxRepositoryImpl) UpdateStatusMany(ctx context.Context, organizationID string, ids []string, from, to nictax.Status) (int64, error) {
	return updateStatusMany(ctx, GetQuerier(ctx, r.db), "nic_tax_records", organizationID, ids, string(from), string(to))
}

// Update implements nictax.NICTaxRepository.
func (r *nicTaxRepositoryImpl) Update(ctx context.Context, record nictax.NICTax) error {
	q := GetQuerier(ctx, r.db)

	entries := record.Entries
	if entries == nil {
		entries = []nictax.Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode nic/tax entries: %w", err)
	}

	tag, err := q.Exec(ctx, `
		UPDATE nic_tax_records
		SET name = $1, status = $2, entries = $3, updated_at = NOW()
		WHERE id = $4 AND organization_id = $5
	`, record.Name, string(record.Status), raw, record.ID, record.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to update nic/tax record %s: %w", record.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return nictax.ErrNICTaxNotFound
	}
	return nil
}

func (r *nicTaxRepositoryImpl) selectRecords(ctx context.Context, builder squirrel.SelectBuilder) ([]nictax.NICTax, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build nic/tax query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query nic/tax records: %w", err)
	}
	defer rows.Close()

	var records []nictax.NICTax
	for rows.Next() {
		var (
			n   nictax.NICTax
			raw []byte
		)
		if err := rows.Scan(&n.ID, &n.OrganizationID, &n.Name, &n.StartDate, &n.EndDate, &n.Status, &raw, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan nic/tax record: %w", err)
		}
		if err := json.Unmarshal(raw, &n.Entries); err != nil {
			return nil, fmt.Errorf("nic/tax record %s: invalid entries: %w", n.ID, err)
		}
		records = append(records, n)
	}
	return records, rows.Err()
}
