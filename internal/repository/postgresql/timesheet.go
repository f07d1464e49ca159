package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/database"
)

var timesheetColumns = []string{
	"id", "organization_id", "name", "location_id", "start_date", "end_date", "status", "entries", "created_at", "updated_at",
}

type timesheetRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepositoryImpl{db: db}
}

// GetByID implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) GetByID(ctx context.Context, id string, organizationID string) (timesheet.Timesheet, error) {
	sheets, err := r.selectTimesheets(ctx, psql.Select(timesheetColumns...).
		From("timesheets").
		Where(squirrel.Eq{"id": id, "organization_id": organizationID}))
	if err != nil {
		return timesheet.Timesheet{}, err
	}
	if len(sheets) == 0 {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	return sheets[0], nil
}

// FindOverlapping implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) FindOverlapping(ctx context.Context, organizationID string, start, end time.Time, statuses []timesheet.Status) ([]timesheet.Timesheet, error) {
	return r.selectTimesheets(ctx, psql.Select(timesheetColumns...).
		From("timesheets").
		Where(squirrel.Eq{"organization_id": organizationID, "status": statusStrings(statuses)}).
		Where(squirrel.LtOrEq{"start_date": end}).
		Where(squirrel.GtOrEq{"end_date": start}).
		OrderBy("start_date ASC", "id ASC"))
}

// UpdateStatusMany implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) UpdateStatusMany(ctx context.Context, organizationID string, ids []string, from, to timesheet.Status) (int64, error) {
	return updateStatusMany(ctx, GetQuerier(ctx, r.db), "timesheets", organizationID, ids, string(from), string(to))
}

// UpdateEntries implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) UpdateEntries(ctx context.Context, organizationID string, id string, entries []timesheet.Entry) error {
	q := GetQuerier(ctx, r.db)

	if entries == nil {
		entries = []timesheet.Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode timesheet entries: %w", err)
	}

	tag, err := q.Exec(ctx, `
		UPDATE timesheets
		SET entries = $1, updated_at = NOW()
		WHERE id = $2 AND organization_id = $3
	`, raw, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to update entries of timesheet %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrTimesheetNotFound
	}
	return nil
}

func (r *timesheetRepositoryImpl) selectTimesheets(ctx context.Context, builder squirrel.SelectBuilder) ([]timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build timesheet query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheets: %w", err)
	}
	defer rows.Close()

	var sheets []timesheet.Timesheet
	for rows.Next() {
		var (
			t   timesheet.Timesheet
			raw []byte
		)
		err := rows.Scan(&t.ID, &t.OrganizationID, &t.Name, &t.LocationID, &t.StartDate, &t.EndDate, &t.Status, &raw, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		if err := json.Unmarshal(raw, &t.Entries); err != nil {
			return nil, fmt.Errorf("timesheet %s: invalid entries: %w", t.ID, err)
		}
		sheets = append(sheets, t)
	}
	return sheets, rows.Err()
}

// updateStatusMany moves rows of table whose status is from; rows in any other status are skipped.
func updateStatusMany(ctx context.Context, q database.Querier, table, organizationID string, ids []string, from, to string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := psql.Update(table).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"organization_id": organizationID, "id": ids, "status": from}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s status update: %w", table, err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s status: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

func statusStrings[S ~string](statuses []S) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
