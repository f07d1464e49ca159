package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-payrun-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func newID(t *testing.T) string {
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func samplePayRun(t *testing.T, orgID, timesheetID string, start, end string) payrun.PayRun {
	ps := employee.PayStructure{
		DailyRates: employee.DailyRates{
			NIDayMode:        employee.NIDayModeFixed,
			NIRegularDays:    decimal.NewFromInt(5),
			NIRegularDayRate: decimal.NewFromInt(10),
		},
	}
	ps.Normalize()

	return payrun.PayRun{
		ID:             newID(t),
		OrganizationID: orgID,
		Name:           "Week " + start,
		StartDate:      date(start),
		EndDate:        date(end),
		Status:         payrun.StatusDraft,
		TotalNetPay:    decimal.RequireFromString("50.25"),
		Entries: []payrun.Entry{
			{
				EmployeeID:      newID(t),
				EmployeeName:    "Ada Lovelace",
				PayStructure:    ps,
				RawTimesheetIDs: []string{timesheetID},
				NetWage:         decimal.RequireFromString("50.25"),
				Breakdown: payrun.Breakdown{
					E9NIDayWage: decimal.NewFromInt(50),
					E23NetWage:  decimal.RequireFromString("50.25"),
				},
				ContributingTimesheets: []payrun.ContributingTimesheet{
					{TimesheetID: timesheetID, TimesheetName: "Site A", HoursWorked: decimal.NewFromInt(8)},
				},
			},
		},
	}
}

func TestPayRunRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewPayRunRepository(setup.DB)
	ctx := context.Background()

	orgID := newID(t)
	timesheetID := newID(t)
	run := samplePayRun(t, orgID, timesheetID, "2025-01-06", "2025-01-12")

	created, err := repo.Create(ctx, run)
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, run.ID, orgID)
	require.NoError(t, err)
	assert.Equal(t, run.Name, got.Name)
	assert.True(t, run.TotalNetPay.Equal(got.TotalNetPay))
	require.Len(t, got.Entries, 1)
	assert.Equal(t, []string{timesheetID}, got.Entries[0].RawTimesheetIDs)
	assert.True(t, got.Entries[0].Breakdown.E9NIDayWage.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, employee.NIDayModeFixed, got.Entries[0].PayStructure.DailyRates.NIDayMode)
	require.Len(t, got.Entries[0].ContributingTimesheets, 1)
	assert.Equal(t, "Site A", got.Entries[0].ContributingTimesheets[0].TimesheetName)

	_, err = repo.GetByID(ctx, run.ID, newID(t))
	assert.ErrorIs(t, err, payrun.ErrPayRunNotFound)
}

func TestPayRunRepository_OverlapRejectedByConstraint(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewPayRunRepository(setup.DB)
	ctx := context.Background()

	orgID := newID(t)
	_, err := repo.Create(ctx, samplePayRun(t, orgID, newID(t), "2025-01-06", "2025-01-12"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, samplePayRun(t, orgID, newID(t), "2025-01-12", "2025-01-18"))
	assert.ErrorIs(t, err, payrun.ErrOverlappingPayRun)

	_, err = repo.Create(ctx, samplePayRun(t, newID(t), newID(t), "2025-01-06", "2025-01-12"))
	assert.NoError(t, err, "other organizations are independent")

	overlapping, err := repo.FindOverlapping(ctx, orgID, date("2025-01-10"), date("2025-01-20"), nil)
	require.NoError(t, err)
	assert.Len(t, overlapping, 1)
}

func TestPayRunRepository_UpdateStatusCompareAndSwap(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewPayRunRepository(setup.DB)
	ctx := context.Background()

	orgID := newID(t)
	run := samplePayRun(t, orgID, newID(t), "2025-02-03", "2025-02-09")
	_, err := repo.Create(ctx, run)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, repo.UpdateStatus(ctx, orgID, run.ID, payrun.StatusDraft, payrun.StatusApproved, now))

	err = repo.UpdateStatus(ctx, orgID, run.ID, payrun.StatusDraft, payrun.StatusApproved, now)
	assert.ErrorIs(t, err, payrun.ErrStatusChanged)

	err = repo.UpdateStatus(ctx, orgID, newID(t), payrun.StatusDraft, payrun.StatusApproved, now)
	assert.ErrorIs(t, err, payrun.ErrPayRunNotFound)

	got, err := repo.GetByID(ctx, run.ID, orgID)
	require.NoError(t, err)
	assert.Equal(t, payrun.StatusApproved, got.Status)
	assert.NotNil(t, got.ApprovedAt)
}

func TestPayRunRepository_FindByTimesheetID(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewPayRunRepository(setup.DB)
	ctx := context.Background()

	orgID := newID(t)
	timesheetID := newID(t)
	run := samplePayRun(t, orgID, timesheetID, "2025-03-03", "2025-03-09")
	_, err := repo.Create(ctx, run)
	require.NoError(t, err)

	found, err := repo.FindByTimesheetID(ctx, orgID, timesheetID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, run.ID, found[0].ID)

	found, err = repo.FindByTimesheetID(ctx, orgID, newID(t))
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewPayRunRepository(setup.DB)
	txManager := postgresql.NewTxManager(setup.DB)
	ctx := context.Background()

	orgID := newID(t)
	run := samplePayRun(t, orgID, newID(t), "2025-04-07", "2025-04-13")
	boom := errors.New("boom")

	err := txManager.RunInTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, repo.LockOrganization(txCtx, orgID))
		_, err := repo.Create(txCtx, run)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetByID(ctx, run.ID, orgID)
	assert.ErrorIs(t, err, payrun.ErrPayRunNotFound)
}

func TestTimesheetRepository_UpdateStatusMany(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewTimesheetRepository(setup.DB)
	ctx := context.Background()

	orgID := newID(t)
	approved, draft := newID(t), newID(t)
	for id, status := range map[string]timesheet.Status{approved: timesheet.StatusApproved, draft: timesheet.StatusDraft} {
		_, err := setup.DB.Exec(ctx, `
			INSERT INTO timesheets (id, organization_id, name, start_date, end_date, status, entries)
			VALUES ($1, $2, 'Site', '2025-01-06', '2025-01-12', $3, '[{"employee_id":"e1","hours_worked":"8"}]')
		`, id, orgID, string(status))
		require.NoError(t, err)
	}

	n, err := repo.UpdateStatusMany(ctx, orgID, []string{approved, draft}, timesheet.StatusApproved, timesheet.StatusPayApproved)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, approved, orgID)
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusPayApproved, got.Status)
	require.Len(t, got.Entries, 1)
	assert.True(t, got.Entries[0].HoursWorked.Equal(decimal.NewFromInt(8)))

	sheets, err := repo.FindOverlapping(ctx, orgID, date("2025-01-01"), date("2025-01-06"), []timesheet.Status{timesheet.StatusDraft})
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, draft, sheets[0].ID)
}
