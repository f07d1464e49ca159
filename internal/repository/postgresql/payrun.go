package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var payRunColumns = []string{
	"id", "organization_id", "name", "notes", "start_date", "end_date", "status",
	"needs_recalculation", "total_net_pay", "created_by", "approved_at", "paid_at", "created_at", "updated_at",
}

type payRunRepositoryImpl struct {
	db *database.DB
}

func NewPayRunRepository(db *database.DB) payrun.PayRunRepository {
	return &payRunRepositoryImpl{db: db}
}

// LockOrganization takes a transaction-scoped advisory lock keyed by the organization.
func (r *payRunRepositoryImpl) LockOrganization(ctx context.Context, organizationID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, organizationID); err != nil {
		return fmt.Errorf("failed to lock organization %s: %w", organizationID, err)
	}
	return nil
}

// FindOverlapping implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) FindOverlapping(ctx context.Context, organizationID string, start, end time.Time, excludeID *string) ([]payrun.PayRun, error) {
	builder := psql.Select(payRunColumns...).
		From("pay_runs").
		Where(squirrel.Eq{"organization_id": organizationID}).
		Where(squirrel.LtOrEq{"start_date": end}).
		Where(squirrel.GtOrEq{"end_date": start}).
		OrderBy("start_date ASC", "id ASC")
	if excludeID != nil {
		builder = builder.Where(squirrel.NotEq{"id": *excludeID})
	}

	return r.selectPayRuns(ctx, builder)
}

// Create implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) Create(ctx context.Context, run payrun.PayRun) (payrun.PayRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_runs (
			id, organization_id, name, notes, start_date, end_date, status,
			needs_recalculation, total_net_pay, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		run.ID, run.OrganizationID, run.Name, run.Notes, run.StartDate, run.EndDate, run.Status,
		run.NeedsRecalculation, run.TotalNetPay, run.CreatedBy,
	).Scan(&run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == exclusionViolation {
			return payrun.PayRun{}, payrun.ErrOverlappingPayRun
		}
		return payrun.PayRun{}, fmt.Errorf("failed to create pay run: %w", err)
	}

	if err := r.insertEntries(ctx, q, run.ID, run.Entries); err != nil {
		return payrun.PayRun{}, err
	}

	return run, nil
}

// GetByID implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (payrun.PayRun, error) {
	builder := psql.Select(payRunColumns...).
		From("pay_runs").
		Where(squirrel.Eq{"id": id, "organization_id": organizationID})

	runs, err := r.selectPayRuns(ctx, builder)
	if err != nil {
		return payrun.PayRun{}, err
	}
	if len(runs) == 0 {
		return payrun.PayRun{}, payrun.ErrPayRunNotFound
	}
	return runs[0], nil
}

// List implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) List(ctx context.Context, organizationID string, filter payrun.PayRunFilter) ([]payrun.PayRun, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := squirrel.And{squirrel.Eq{"organization_id": organizationID}}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"status": string(*filter.Status)})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("pay_runs").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pay runs: %w", err)
	}

	builder := psql.Select(payRunColumns...).
		From("pay_runs").
		Where(where).
		OrderBy("start_date DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit))

	runs, err := r.selectPayRuns(ctx, builder)
	if err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

// Update implements payrun.PayRunRepository. Status and its timestamps are only changed by UpdateStatus.
func (r *payRunRepositoryImpl) Update(ctx context.Context, run payrun.PayRun) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_runs
		SET name = $1, notes = $2, needs_recalculation = $3, total_net_pay = $4, updated_at = NOW()
		WHERE id = $5 AND organization_id = $6
	`

	tag, err := q.Exec(ctx, query, run.Name, run.Notes, run.NeedsRecalculation, run.TotalNetPay, run.ID, run.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to update pay run %s: %w", run.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return payrun.ErrPayRunNotFound
	}

	if _, err := q.Exec(ctx, `DELETE FROM pay_run_entries WHERE pay_run_id = $1`, run.ID); err != nil {
		return fmt.Errorf("failed to clear entries of pay run %s: %w", run.ID, err)
	}
	return r.insertEntries(ctx, q, run.ID, run.Entries)
}

// UpdateStatus implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) UpdateStatus(ctx context.Context, organizationID string, id string, from, to payrun.Status, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	builder := psql.Update("pay_runs").
		Set("status", string(to)).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "organization_id": organizationID, "status": string(from)})

	switch to {
	case payrun.StatusApproved:
		builder = builder.Set("approved_at", at)
	case payrun.StatusDraft:
		builder = builder.Set("approved_at", nil)
	case payrun.StatusPaid:
		builder = builder.Set("paid_at", at)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build status update: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update status of pay run %s: %w", id, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	err = q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pay_runs WHERE id = $1 AND organization_id = $2)`, id, organizationID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check pay run %s: %w", id, err)
	}
	if !exists {
		return payrun.ErrPayRunNotFound
	}
	return payrun.ErrStatusChanged
}

// Delete implements payrun.PayRunRepository. Entries go with the run through ON DELETE CASCADE.
func (r *payRunRepositoryImpl) Delete(ctx context.Context, id string, organizationID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM pay_runs WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete pay run %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payrun.ErrPayRunNotFound
	}
	return nil
}

// FindByTimesheetID implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) FindByTimesheetID(ctx context.Context, organizationID string, timesheetID string) ([]payrun.PayRun, error) {
	return r.findReferencing(ctx, organizationID, "raw_timesheet_ids", timesheetID)
}

// FindByNICTaxID implements payrun.PayRunRepository.
func (r *payRunRepositoryImpl) FindByNICTaxID(ctx context.Context, organizationID string, nicTaxID string) ([]payrun.PayRun, error) {
	return r.findReferencing(ctx, organizationID, "raw_nic_tax_ids", nicTaxID)
}

func (r *payRunRepositoryImpl) findReferencing(ctx context.Context, organizationID, column, sourceID string) ([]payrun.PayRun, error) {
	builder := psql.Select(payRunColumns...).
		From("pay_runs").
		Where(squirrel.Eq{"organization_id": organizationID}).
		Where(squirrel.Expr(
			"id IN (SELECT pay_run_id FROM pay_run_entries WHERE "+column+" @> ARRAY[?]::text[])", sourceID,
		)).
		OrderBy("start_date ASC", "id ASC")

	return r.selectPayRuns(ctx, builder)
}

// ========== ROW MAPPING ==========

func (r *payRunRepositoryImpl) selectPayRuns(ctx context.Context, builder squirrel.SelectBuilder) ([]payrun.PayRun, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pay run query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pay runs: %w", err)
	}
	defer rows.Close()

	runs := []payrun.PayRun{}
	for rows.Next() {
		var run payrun.PayRun
		err := rows.Scan(
			&run.ID, &run.OrganizationID, &run.Name, &run.Notes, &run.StartDate, &run.EndDate, &run.Status,
			&run.NeedsRecalculation, &run.TotalNetPay, &run.CreatedBy, &run.ApprovedAt, &run.PaidAt,
			&run.CreatedAt, &run.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pay run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(runs) == 0 {
		return runs, nil
	}
	if err := r.loadEntries(ctx, q, runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *payRunRepositoryImpl) loadEntries(ctx context.Context, q database.Querier, runs []payrun.PayRun) error {
	ids := make([]string, len(runs))
	index := make(map[string]int, len(runs))
	for i, run := range runs {
		ids[i] = run.ID
		index[run.ID] = i
	}

	query := `
		SELECT pay_run_id, employee_id, employee_name, payroll_id, pay_structure, raw_timesheet_ids,
			raw_nic_tax_ids, net_wage, breakdown, needs_update, contributing_timesheets
		FROM pay_run_entries
		WHERE pay_run_id = ANY($1)
		ORDER BY pay_run_id, position
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query pay run entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			payRunID                            string
			entry                               payrun.Entry
			payStructure, breakdown, contribute []byte
		)
		err := rows.Scan(
			&payRunID, &entry.EmployeeID, &entry.EmployeeName, &entry.PayrollID, &payStructure,
			&entry.RawTimesheetIDs, &entry.RawNICTaxIDs, &entry.NetWage, &breakdown, &entry.NeedsUpdate, &contribute,
		)
		if err != nil {
			return fmt.Errorf("failed to scan pay run entry: %w", err)
		}

		ps, err := employee.ParsePayStructure(payStructure)
		if err != nil {
			return fmt.Errorf("pay run %s entry %s: %w", payRunID, entry.EmployeeID, err)
		}
		if ps != nil {
			entry.PayStructure = *ps
		}
		if err := json.Unmarshal(breakdown, &entry.Breakdown); err != nil {
			return fmt.Errorf("pay run %s entry %s: invalid breakdown: %w", payRunID, entry.EmployeeID, err)
		}
		if err := json.Unmarshal(contribute, &entry.ContributingTimesheets); err != nil {
			return fmt.Errorf("pay run %s entry %s: invalid contributing timesheets: %w", payRunID, entry.EmployeeID, err)
		}

		i := index[payRunID]
		runs[i].Entries = append(runs[i].Entries, entry)
	}
	return rows.Err()
}

func (r *payRunRepositoryImpl) insertEntries(ctx context.Context, q database.Querier, payRunID string, entries []payrun.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO pay_run_entries (
			pay_run_id, position, employee_id, employee_name, payroll_id, pay_structure, raw_timesheet_ids,
			raw_nic_tax_ids, net_wage, breakdown, needs_update, contributing_timesheets
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	batch := &pgx.Batch{}
	for i, e := range entries {
		payStructure, err := json.Marshal(e.PayStructure)
		if err != nil {
			return fmt.Errorf("failed to encode pay structure for %s: %w", e.EmployeeID, err)
		}
		breakdown, err := json.Marshal(e.Breakdown)
		if err != nil {
			return fmt.Errorf("failed to encode breakdown for %s: %w", e.EmployeeID, err)
		}
		contributing := e.ContributingTimesheets
		if contributing == nil {
			contributing = []payrun.ContributingTimesheet{}
		}
		contribute, err := json.Marshal(contributing)
		if err != nil {
			return fmt.Errorf("failed to encode contributing timesheets for %s: %w", e.EmployeeID, err)
		}

		batch.Queue(query,
			payRunID, i, e.EmployeeID, e.EmployeeName, e.PayrollID, payStructure, nonNil(e.RawTimesheetIDs),
			nonNil(e.RawNICTaxIDs), e.NetWage, breakdown, e.NeedsUpdate, contribute,
		)
	}

	results := q.SendBatch(ctx, batch)
	for range entries {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert pay run entry: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to insert pay run entries: %w", err)
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
