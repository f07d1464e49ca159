package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/nictax"
	"github.com/cmlabs-hris/hris-payrun-go/internal/handler/http/response"
)

type NICTaxHandler interface {
	Update(w http.ResponseWriter, r *http.Request)
}

type nicTaxHandlerImpl struct {
	nicTaxService nictax.NICTaxService
}

func NewNICTaxHandler(nicTaxService nictax.NICTaxService) NICTaxHandler {
	return &nicTaxHandlerImpl{nicTaxService: nicTaxService}
}

func (h *nicTaxHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "NIC/Tax record")
	if !ok {
		return
	}

	var req nictax.UpdateNICTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.nicTaxService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
