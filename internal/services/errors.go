package services

import (
	"errors"
)

// Sentinel errors returned by services. Handlers map these to HTTP
// status codes with errors.Is, so services wrap them with %w and never
// return raw gorm errors to callers.
var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("service unavailable")
)
