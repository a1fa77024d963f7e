package types

import "errors"

var (
	// ErrNotFound is returned when a lookup matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a lookup that must be unique matched more than once.
	ErrConflict = errors.New("conflict")

	ErrNoAnnotations      = errors.New("at least one annotation (key=value) is required")
	ErrUnsupportedBackend = errors.New("unsupported cost insights backend (expected http or aws)")
	ErrMissingBaseURL     = errors.New("base URL is not configured")
)
