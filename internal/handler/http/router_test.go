package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-payrun-go/internal/repository/memory"
	employeeService "github.com/cmlabs-hris/hris-payrun-go/internal/service/employee"
	nictaxService "github.com/cmlabs-hris/hris-payrun-go/internal/service/nictax"
	payrunService "github.com/cmlabs-hris/hris-payrun-go/internal/service/payrun"
	timesheetService "github.com/cmlabs-hris/hris-payrun-go/internal/service/timesheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrgID   = "org-1"
	aliceID     = "01940000-0000-7000-8000-00000000000a"
	bobID       = "01940000-0000-7000-8000-00000000000b"
	timesheetID = "01940000-0000-7000-8000-0000000000f1"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	store  *memory.Store
	router http.Handler
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	store.PutEmployee(employee.Employee{
		ID:             aliceID,
		OrganizationID: testOrgID,
		FirstName:      "Alice",
		LastName:       "Smith",
		PayStructure: &employee.PayStructure{
			DailyRates: employee.DailyRates{NIDayMode: employee.NIDayModeNone, CashDayMode: employee.CashDayModeNone},
			HourlyRates: employee.HourlyRates{
				NIHoursMode:   employee.NIHoursModeAll,
				NIRatePerHour: decimal.NewFromInt(12),
				CashHoursMode: employee.CashHoursModeNone,
			},
		},
	})
	store.PutTimesheet(timesheet.Timesheet{
		ID:             timesheetID,
		OrganizationID: testOrgID,
		Name:           "Week 1",
		StartDate:      time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		Status:         timesheet.StatusApproved,
		Entries:        []timesheet.Entry{{EmployeeID: aliceID, HoursWorked: decimal.NewFromInt(10)}},
	})

	hub := sse.NewHub()
	payRunRepo := memory.NewPayRunRepository(store)
	timesheetRepo := memory.NewTimesheetRepository(store)
	nicTaxRepo := memory.NewNICTaxRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)

	payRunSvc := payrunService.NewPayRunService(store, payRunRepo, timesheetRepo, nicTaxRepo, employeeRepo, hub, 2)
	handlers := Handlers{
		PayRun:    NewPayRunHandler(payRunSvc, hub),
		Timesheet: NewTimesheetHandler(timesheetService.NewTimesheetService(store, timesheetRepo, payRunSvc)),
		NICTax:    NewNICTaxHandler(nictaxService.NewNICTaxService(store, nicTaxRepo, payRunSvc)),
		Employee:  NewEmployeeHandler(employeeService.NewEmployeeService(store, employeeRepo, memory.NewLocationRepository(store))),
	}

	jwtService := jwt.NewJWTService("test-secret", "15m")
	token, _, err := jwtService.GenerateAccessToken("user-1", testOrgID)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testServer{
		t:      t,
		store:  store,
		router: NewRouter(logger, jwtService, []string{"*"}, 5*time.Second, handlers),
		token:  token,
	}
}

func (s *testServer) do(method, path string, body interface{}) (int, apiResponse) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

type payRunBody struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	TotalNetPay decimal.Decimal `json:"total_net_pay"`
	Entries     []struct {
		EmployeeName string          `json:"employee_name"`
		NetWage      decimal.Decimal `json:"net_wage"`
	} `json:"entries"`
}

func (s *testServer) createJanuary() payRunBody {
	s.t.Helper()
	code, resp := s.do(http.MethodPost, "/api/v1/payruns", map[string]string{
		"pay_run_name": "January",
		"start_date":   "2025-01-01",
		"end_date":     "2025-01-31",
	})
	require.Equal(s.t, http.StatusCreated, code)

	var run payRunBody
	require.NoError(s.t, json.Unmarshal(resp.Data, &run))
	return run
}

// ===== AUTH TESTS =====

func TestRouter_RequiresToken(t *testing.T) {
	srv := newTestServer(t)
	srv.token = ""

	code, resp := srv.do(http.MethodGet, "/api/v1/payruns", nil)

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, resp.Success)
}

func TestRouter_Heartbeat(t *testing.T) {
	srv := newTestServer(t)
	srv.token = ""

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ===== PAY RUN TESTS =====

func TestRouter_CreateAndGetPayRun(t *testing.T) {
	srv := newTestServer(t)

	run := srv.createJanuary()
	assert.Equal(t, "Draft", run.Status)
	assert.True(t, decimal.NewFromInt(120).Equal(run.TotalNetPay))
	require.Len(t, run.Entries, 1)
	assert.Equal(t, "Alice Smith", run.Entries[0].EmployeeName)

	code, resp := srv.do(http.MethodGet, "/api/v1/payruns/"+run.ID, nil)
	require.Equal(t, http.StatusOK, code)
	var fetched payRunBody
	require.NoError(t, json.Unmarshal(resp.Data, &fetched))
	assert.Equal(t, run.ID, fetched.ID)
}

func TestRouter_ListPayRuns(t *testing.T) {
	srv := newTestServer(t)
	srv.createJanuary()

	code, resp := srv.do(http.MethodGet, "/api/v1/payruns?status=Draft&limit=5", nil)

	require.Equal(t, http.StatusOK, code)
	var runs []payRunBody
	require.NoError(t, json.Unmarshal(resp.Data, &runs))
	assert.Len(t, runs, 1)
	assert.Empty(t, runs[0].Entries)
}

func TestRouter_CreatePayRun_Overlap(t *testing.T) {
	srv := newTestServer(t)
	first := srv.createJanuary()

	code, resp := srv.do(http.MethodPost, "/api/v1/payruns", map[string]string{
		"pay_run_name": "Overlap",
		"start_date":   "2025-01-15",
		"end_date":     "2025-02-15",
	})

	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, first.ID, resp.Error.Details["existing_pay_run_id"])
	assert.Equal(t, "January", resp.Error.Details["existing_pay_run_name"])
}

func TestRouter_CreatePayRun_Validation(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(http.MethodPost, "/api/v1/payruns", map[string]string{
		"start_date": "2025-02-01",
		"end_date":   "2025-01-01",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "pay_run_name")
	assert.Contains(t, resp.Error.Details, "end_date")
}

func TestRouter_CreatePayRun_MissingPayStructure(t *testing.T) {
	srv := newTestServer(t)
	srv.store.PutEmployee(employee.Employee{ID: bobID, OrganizationID: testOrgID, FirstName: "Bob", LastName: "Jones"})
	srv.store.PutTimesheet(timesheet.Timesheet{
		ID:             "ts-2",
		OrganizationID: testOrgID,
		StartDate:      time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC),
		Status:         timesheet.StatusDraft,
		Entries:        []timesheet.Entry{{EmployeeID: bobID, HoursWorked: decimal.NewFromInt(1)}},
	})

	code, resp := srv.do(http.MethodPost, "/api/v1/payruns", map[string]string{
		"pay_run_name": "January",
		"start_date":   "2025-01-01",
		"end_date":     "2025-01-31",
	})

	assert.Equal(t, http.StatusPreconditionFailed, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, bobID, resp.Error.Details["employee_id"])
	assert.Equal(t, "Bob Jones", resp.Error.Details["employee_name"])
}

func TestRouter_PayRun_InvalidAndUnknownID(t *testing.T) {
	srv := newTestServer(t)

	code, _ := srv.do(http.MethodGet, "/api/v1/payruns/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = srv.do(http.MethodGet, "/api/v1/payruns/0190f5c2-7b1e-7c3a-9d2f-4a6b8c0d1e2f", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_PayRunLifecycle(t *testing.T) {
	srv := newTestServer(t)
	run := srv.createJanuary()

	code, _ := srv.do(http.MethodPost, "/api/v1/payruns/"+run.ID+"/pay", nil)
	assert.Equal(t, http.StatusPreconditionFailed, code, "draft cannot be paid")

	code, _ = srv.do(http.MethodPost, "/api/v1/payruns/"+run.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, code)

	code, resp := srv.do(http.MethodPut, "/api/v1/timesheets/"+timesheetID+"/entries", map[string]interface{}{
		"entries": []map[string]string{{"employee_id": aliceID, "hours_worked": "2"}},
	})
	assert.Equal(t, http.StatusLocked, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "LOCKED", resp.Error.Code)

	code, _ = srv.do(http.MethodPatch, "/api/v1/payruns/"+run.ID, map[string]string{"pay_run_name": "Renamed"})
	assert.Equal(t, http.StatusLocked, code)

	code, _ = srv.do(http.MethodPost, "/api/v1/payruns/"+run.ID+"/pay", nil)
	require.Equal(t, http.StatusOK, code)

	for _, action := range []string{"approve", "revert", "pay"} {
		code, resp = srv.do(http.MethodPost, "/api/v1/payruns/"+run.ID+"/"+action, nil)
		assert.Equal(t, http.StatusPreconditionFailed, code, "paid is terminal: %s", action)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "PRECONDITION_FAILED", resp.Error.Code)
	}

	code, _ = srv.do(http.MethodDelete, "/api/v1/payruns/"+run.ID, nil)
	assert.Equal(t, http.StatusPreconditionFailed, code)
}

// ===== SOURCE DOCUMENT TESTS =====

func TestRouter_SourceDocuments_RejectMalformedIDs(t *testing.T) {
	srv := newTestServer(t)

	code, _ := srv.do(http.MethodGet, "/api/v1/timesheets/ts-1/lock", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = srv.do(http.MethodPut, "/api/v1/timesheets/ts-1/entries", map[string]interface{}{
		"entries": []map[string]string{{"employee_id": aliceID, "hours_worked": "2"}},
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = srv.do(http.MethodPatch, "/api/v1/nictax/nt-1", map[string]string{"status": "Approved"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = srv.do(http.MethodGet, "/api/v1/employees/emp-a", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_TimesheetEntries_RejectNonUUIDEmployee(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(http.MethodPut, "/api/v1/timesheets/"+timesheetID+"/entries", map[string]interface{}{
		"entries": []map[string]string{{"employee_id": "abc", "hours_worked": "2"}},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "must be a valid UUID", resp.Error.Details["entries[0].employee_id"])

	created := srv.createJanuary()
	assert.True(t, decimal.NewFromInt(120).Equal(created.TotalNetPay), "stored entries untouched")
}

func TestRouter_TimesheetEditFlagsPayRun(t *testing.T) {
	srv := newTestServer(t)
	run := srv.createJanuary()

	code, _ := srv.do(http.MethodPut, "/api/v1/timesheets/"+timesheetID+"/entries", map[string]interface{}{
		"entries": []map[string]string{{"employee_id": aliceID, "hours_worked": "12"}},
	})
	require.Equal(t, http.StatusOK, code)

	code, resp := srv.do(http.MethodGet, "/api/v1/payruns/"+run.ID, nil)
	require.Equal(t, http.StatusOK, code)
	var fetched struct {
		NeedsRecalculation bool `json:"needs_recalculation"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &fetched))
	assert.True(t, fetched.NeedsRecalculation)

	code, resp = srv.do(http.MethodPost, "/api/v1/payruns/"+run.ID+"/recalculate", nil)
	require.Equal(t, http.StatusOK, code)
	var recalculated payRunBody
	require.NoError(t, json.Unmarshal(resp.Data, &recalculated))
	assert.True(t, decimal.NewFromInt(144).Equal(recalculated.TotalNetPay))
}

func TestRouter_TimesheetLockStatus(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(http.MethodGet, "/api/v1/timesheets/"+timesheetID+"/lock", nil)

	require.Equal(t, http.StatusOK, code)
	var status timesheet.LockStatusResponse
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.False(t, status.Locked)
}

func TestRouter_EmployeeBatchCreate(t *testing.T) {
	srv := newTestServer(t)

	code, resp := srv.do(http.MethodPost, "/api/v1/employees/batch", map[string]interface{}{
		"employees": []map[string]interface{}{
			{"first_name": "Cara", "last_name": "Lee", "pay_structure": map[string]interface{}{
				"hourly_rates": map[string]interface{}{"ni_hours_mode": "ALL", "ni_rate_per_hour": "11.5"},
			}},
		},
	})

	require.Equal(t, http.StatusCreated, code)
	var created []employee.EmployeeResponse
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	require.Len(t, created, 1)

	code, _ = srv.do(http.MethodGet, "/api/v1/employees/"+created[0].ID, nil)
	assert.Equal(t, http.StatusOK, code)
}
