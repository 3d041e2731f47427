package resumes

import "errors"

var (
	// ErrNotFound indicates no resume exists for the id.
	ErrNotFound = errors.New("resume not found")

	// ErrInvalidID indicates an id that is not a positive integer.
	ErrInvalidID = errors.New("invalid resume id")

	// ErrExportUnavailable indicates no PDF exporter is configured.
	ErrExportUnavailable = errors.New("pdf export unavailable")
)

const (
	ErrorCodeValidation = "validation_error"
	ErrorCodeInvalidID  = "invalid_id"
	ErrorCodeNotFound   = "not_found"
	ErrorCodeInternal   = "internal_error"
)
