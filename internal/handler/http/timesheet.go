package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/hris-payrun-go/internal/handler/http/response"
)

type TimesheetHandler interface {
	UpdateEntries(w http.ResponseWriter, r *http.Request)
	GetLockStatus(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{timesheetService: timesheetService}
}

func (h *timesheetHandlerImpl) UpdateEntries(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "timesheet")
	if !ok {
		return
	}

	var req timesheet.UpdateEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.timesheetService.UpdateEntries(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *timesheetHandlerImpl) GetLockStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "timesheet")
	if !ok {
		return
	}

	result, err := h.timesheetService.GetLockStatus(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
