package timesheet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-payrun-go/internal/repository/memory"
	payrunsvc "github.com/cmlabs-hris/hris-payrun-go/internal/service/payrun"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrgID = "org-1"
	empA      = "01940000-0000-7000-8000-00000000000a"
	empB      = "01940000-0000-7000-8000-00000000000b"
)

func authCtx(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":         "user-1",
		"organization_id": testOrgID,
		"type":            "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func hours(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type testEnv struct {
	store      *memory.Store
	payRuns    payrun.PayRunService
	timesheets timesheet.TimesheetService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()

	for _, id := range []string{empA, empB} {
		store.PutEmployee(employee.Employee{
			ID:             id,
			OrganizationID: testOrgID,
			FirstName:      id,
			LastName:       "Test",
			PayStructure: &employee.PayStructure{
				DailyRates: employee.DailyRates{NIDayMode: employee.NIDayModeNone, CashDayMode: employee.CashDayModeNone},
				HourlyRates: employee.HourlyRates{
					NIHoursMode:   employee.NIHoursModeAll,
					NIRatePerHour: hours("10"),
					CashHoursMode: employee.CashHoursModeNone,
				},
			},
		})
	}
	store.PutTimesheet(timesheet.Timesheet{
		ID:             "ts-1",
		OrganizationID: testOrgID,
		Name:           "Week 1",
		StartDate:      time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		Status:         timesheet.StatusApproved,
		Entries: []timesheet.Entry{
			{EmployeeID: empA, HoursWorked: hours("8")},
			{EmployeeID: empB, HoursWorked: hours("6")},
		},
	})

	timesheetRepo := memory.NewTimesheetRepository(store)
	payRuns := payrunsvc.NewPayRunService(
		store,
		memory.NewPayRunRepository(store),
		timesheetRepo,
		memory.NewNICTaxRepository(store),
		memory.NewEmployeeRepository(store),
		nil,
		2,
	)

	return &testEnv{
		store:      store,
		payRuns:    payRuns,
		timesheets: NewTimesheetService(store, timesheetRepo, payRuns),
	}
}

func (env *testEnv) createPayRun(t *testing.T, ctx context.Context) payrun.PayRunResponse {
	t.Helper()
	resp, err := env.payRuns.Create(ctx, payrun.CreatePayRunRequest{Name: "January", StartDate: "2025-01-01", EndDate: "2025-01-31"})
	require.NoError(t, err)
	return resp
}

// ===== UPDATE ENTRIES TESTS =====

func TestTimesheetService_UpdateEntries_FlagsDraftPayRun(t *testing.T) {
	env := newTestEnv(t)
	ctx := authCtx(t)
	run := env.createPayRun(t, ctx)

	// Act
	resp, err := env.timesheets.UpdateEntries(ctx, timesheet.UpdateEntriesRequest{
		ID: "ts-1",
		Entries: []timesheet.Entry{
			{EmployeeID: empA, HoursWorked: hours("8")},
			{EmployeeID: empB, HoursWorked: hours("7")},
		},
	})

	// Assert
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 2)

	updated, err := env.payRuns.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, updated.NeedsRecalculation)
	require.Len(t, updated.Entries, 2)
	assert.False(t, updated.Entries[0].NeedsUpdate, "emp-a unchanged")
	assert.True(t, updated.Entries[1].NeedsUpdate, "emp-b changed")

	recalculated, err := env.payRuns.Recalculate(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, hours("150").Equal(recalculated.TotalNetPay))
}

func TestTimesheetService_UpdateEntries_NoChangeLeavesPayRunClean(t *testing.T) {
	env := newTestEnv(t)
	ctx := authCtx(t)
	run := env.createPayRun(t, ctx)

	_, err := env.timesheets.UpdateEntries(ctx, timesheet.UpdateEntriesRequest{
		ID: "ts-1",
		Entries: []timesheet.Entry{
			{EmployeeID: empB, HoursWorked: hours("6.0")},
			{EmployeeID: empA, HoursWorked: hours("8")},
		},
	})

	require.NoError(t, err)
	updated, err := env.payRuns.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.False(t, updated.NeedsRecalculation)
}

func TestTimesheetService_UpdateEntries_LockedByApprovedPayRun(t *testing.T) {
	env := newTestEnv(t)
	ctx := authCtx(t)
	run := env.createPayRun(t, ctx)
	_, err := env.payRuns.Approve(ctx, run.ID)
	require.NoError(t, err)

	// The cascade makes ts-1 Pay Approved; put it back to exercise the pay run lock itself.
	sheet, err := memory.NewTimesheetRepository(env.store).GetByID(ctx, "ts-1", testOrgID)
	require.NoError(t, err)
	sheet.Status = timesheet.StatusApproved
	env.store.PutTimesheet(sheet)

	_, err = env.timesheets.UpdateEntries(ctx, timesheet.UpdateEntriesRequest{
		ID:      "ts-1",
		Entries: []timesheet.Entry{{EmployeeID: empA, HoursWorked: hours("1")}},
	})

	assert.True(t, errors.Is(err, timesheet.ErrTimesheetLockedByPayRun))
	assert.True(t, errors.Is(err, shared.ErrImmutability))
}

func TestTimesheetService_UpdateEntries_PayApproved(t *testing.T) {
	env := newTestEnv(t)
	ctx := authCtx(t)
	run := env.createPayRun(t, ctx)
	_, err := env.payRuns.Approve(ctx, run.ID)
	require.NoError(t, err)

	_, err = env.timesheets.UpdateEntries(ctx, timesheet.UpdateEntriesRequest{
		ID:      "ts-1",
		Entries: []timesheet.Entry{{EmployeeID: empA, HoursWorked: hours("1")}},
	})

	assert.True(t, errors.Is(err, timesheet.ErrTimesheetPayApproved))
}

func TestTimesheetService_UpdateEntries_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.timesheets.UpdateEntries(authCtx(t), timesheet.UpdateEntriesRequest{ID: "missing"})

	assert.True(t, errors.Is(err, timesheet.ErrTimesheetNotFound))
}

func TestTimesheetService_UpdateEntries_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.timesheets.UpdateEntries(authCtx(t), timesheet.UpdateEntriesRequest{
		ID:      "ts-1",
		Entries: []timesheet.Entry{{HoursWorked: hours("1")}},
	})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "entries[0].employee_id")
}

type failingLink struct{}

func (failingLink) IsTimesheetLocked(ctx context.Context, organizationID, timesheetID string) (bool, error) {
	return false, nil
}

func (failingLink) MarkTimesheetEdited(ctx context.Context, organizationID, timesheetID string, employeeIDs []string) error {
	return errors.New("flag failed")
}

func TestTimesheetService_UpdateEntries_RollsBackWhenFlaggingFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := authCtx(t)
	repo := memory.NewTimesheetRepository(env.store)
	svc := NewTimesheetService(env.store, repo, failingLink{})

	_, err := svc.UpdateEntries(ctx, timesheet.UpdateEntriesRequest{
		ID:      "ts-1",
		Entries: []timesheet.Entry{{EmployeeID: empA, HoursWorked: hours("1")}},
	})

	require.Error(t, err)
	sheet, err := repo.GetByID(ctx, "ts-1", testOrgID)
	require.NoError(t, err)
	assert.Len(t, sheet.Entries, 2)
}

// ===== LOCK STATUS TESTS =====

func TestTimesheetService_GetLockStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := authCtx(t)
	run := env.createPayRun(t, ctx)

	status, err := env.timesheets.GetLockStatus(ctx, "ts-1")
	require.NoError(t, err)
	assert.Equal(t, "ts-1", status.TimesheetID)
	assert.False(t, status.Locked)

	_, err = env.payRuns.Approve(ctx, run.ID)
	require.NoError(t, err)

	status, err = env.timesheets.GetLockStatus(ctx, "ts-1")
	require.NoError(t, err)
	assert.True(t, status.Locked)
}

func TestChangedEmployees(t *testing.T) {
	before := []timesheet.Entry{
		{EmployeeID: "emp-a", HoursWorked: hours("4")},
		{EmployeeID: "emp-a", HoursWorked: hours("4")},
		{EmployeeID: "emp-b", HoursWorked: hours("6")},
		{EmployeeID: "emp-c", DaysWorked: hours("1")},
	}
	after := []timesheet.Entry{
		{EmployeeID: "emp-a", HoursWorked: hours("8")},
		{EmployeeID: "emp-b", HoursWorked: hours("6"), Notes: "late"},
		{EmployeeID: "emp-d", HoursWorked: hours("2")},
	}

	assert.Equal(t, []string{"emp-b", "emp-c", "emp-d"}, changedEmployees(before, after))
}
