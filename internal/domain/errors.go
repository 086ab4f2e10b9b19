package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// benefit does not exist or has been soft-deleted.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. a negative page number).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrDuplicateName is returned when a create or update would give two
// non-deleted benefits the same name.
// Handlers should map this to HTTP 400.
var ErrDuplicateName = errors.New("duplicate name")
