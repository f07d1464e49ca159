package shared

import "errors"

// Error categories. Domain sentinels wrap one of these so handlers can map
// a whole family with a single errors.Is check.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrPrecondition = errors.New("precondition failed")
	ErrImmutability = errors.New("record is immutable")
	ErrUnauthorized = errors.New("unauthorized")
)
