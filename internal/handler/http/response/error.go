package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/payrun"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Structured pay run errors carry the offending record
	var overlapErr *payrun.OverlapError
	if errors.As(err, &overlapErr) {
		Conflict(w, overlapErr.Error(), map[string]string{
			"existing_pay_run_id":   overlapErr.ExistingID,
			"existing_pay_run_name": overlapErr.ExistingName,
		})
		return
	}
	var missingErr *payrun.MissingPayStructureError
	if errors.As(err, &missingErr) {
		PreconditionFailed(w, missingErr.Error(), map[string]string{
			"employee_id":   missingErr.EmployeeID,
			"employee_name": missingErr.EmployeeName,
		})
		return
	}

	switch {
	case errors.Is(err, shared.ErrValidation):
		ValidationError(w, map[string]string{"request": err.Error()})
	case errors.Is(err, shared.ErrUnauthorized):
		Unauthorized(w, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, shared.ErrConflict):
		Conflict(w, err.Error(), nil)
	case errors.Is(err, shared.ErrPrecondition):
		PreconditionFailed(w, err.Error(), nil)
	case errors.Is(err, shared.ErrImmutability):
		Locked(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", slog.Any("error", err))
		InternalServerError(w, "An unexpected error occurred")
	}
}
