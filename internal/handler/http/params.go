package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payrun-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// uuidParam reads the {id} path parameter and answers 400 when it is not a UUID.
func uuidParam(w http.ResponseWriter, r *http.Request, resource string) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid "+resource+" ID", nil)
		return "", false
	}
	return id, true
}
