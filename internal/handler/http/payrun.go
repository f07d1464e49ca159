package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
	"github.com/cmlabs-hris/hris-payrun-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/sse"
)

type PayRunHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// Lifecycle
	Recalculate(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Revert(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)

	// Events streams pay run notifications of the caller's organization.
	Events(w http.ResponseWriter, r *http.Request)
}

type payRunHandlerImpl struct {
	payRunService payrun.PayRunService
	hub           *sse.Hub
	keepalive     time.Duration
}

func NewPayRunHandler(payRunService payrun.PayRunService, hub *sse.Hub) PayRunHandler {
	return &payRunHandlerImpl{
		payRunService: payRunService,
		hub:           hub,
		keepalive:     30 * time.Second,
	}
}

func (h *payRunHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req payrun.CreatePayRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payRunService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Pay run created", result)
}

func (h *payRunHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := payRunID(w, r)
	if !ok {
		return
	}

	result, err := h.payRunService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payRunHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter payrun.PayRunFilter
	if status := query.Get("status"); status != "" {
		s := payrun.Status(status)
		filter.Status = &s
	}
	if page := query.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if limit := query.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}

	result, err := h.payRunService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := 0
	if result.Limit > 0 {
		totalPages = int((result.TotalCount + int64(result.Limit) - 1) / int64(result.Limit))
	}

	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages,
	})
}

func (h *payRunHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := payRunID(w, r)
	if !ok {
		return
	}

	var req payrun.UpdatePayRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.payRunService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payRunHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := payRunID(w, r)
	if !ok {
		return
	}

	if err := h.payRunService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run deleted", nil)
}

// ========== LIFECYCLE ==========

func (h *payRunHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	id, ok := payRunID(w, r)
	if !ok {
		return
	}

	result, err := h.payRunService.Recalculate(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run recalculated", result)
}

func (h *payRunHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := payRunID(w, r)
	if !ok {
		return
	}

	result, err := h.payRunService.Approve(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run approved", result)
}

func (h *payRunHandlerImpl) Revert(w http.ResponseWriter, r *http.Request) {
	id, ok := payRunID(w, r)
	if !ok {
		return
	}

	result, err := h.payRunService.Revert(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run reverted to draft", result)
}

func (h *payRunHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := payRunID(w, r)
	if !ok {
		return
	}

	result, err := h.payRunService.MarkPaid(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay run marked as paid", result)
}

// ========== EVENTS ==========

func (h *payRunHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	organizationID, _, err := shared.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(organizationID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"organization_id\":\"%s\"}\n\n", organizationID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func payRunID(w http.ResponseWriter, r *http.Request) (string, bool) {
	return uuidParam(w, r, "pay run")
}
