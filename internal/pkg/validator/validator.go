package validator

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects field errors for a whole request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// WithPrefix returns a copy with every field nested under prefix.
func (v ValidationErrors) WithPrefix(prefix string) ValidationErrors {
	out := make(ValidationErrors, 0, len(v))
	for _, err := range v {
		out = append(out, ValidationError{Field: prefix + "." + err.Field, Message: err.Message})
	}
	return out
}

// Add records an error on field.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Required records an error when s is blank.
func (v *ValidationErrors) Required(field, s string) {
	if IsEmpty(s) {
		v.Add(field, "is required")
	}
}

// UUID records an error when s is blank or not a version 7 UUID.
func (v *ValidationErrors) UUID(field, s string) {
	switch {
	case IsEmpty(s):
		v.Add(field, "is required")
	case !IsValidUUID(s):
		v.Add(field, "must be a valid UUID")
	}
}

// NonNegative records an error when d is below zero.
func (v *ValidationErrors) NonNegative(field string, d decimal.Decimal) {
	if d.IsNegative() {
		v.Add(field, "must not be negative")
	}
}

// Err returns nil when nothing was recorded, so callers can return it directly.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidUUID accepts only the canonical 36 character form of a version 7 UUID.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	id, err := uuid.Parse(s)
	return err == nil && id.Version() == 7 && id.Variant() == uuid.RFC4122
}

// IsValidDate parses a YYYY-MM-DD calendar date.
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(DateLayout, dateStr)
	return date, err == nil
}
