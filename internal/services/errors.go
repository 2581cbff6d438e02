package services

import "errors"

// Sentinel errors for the service layer. Handlers map these to HTTP
// statuses in one place; wrap with fmt.Errorf("...: %w", Err...) to add
// detail while keeping errors.Is checks working.
var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrBadRequest           = errors.New("bad request")
	ErrInvalidCredential    = errors.New("invalid credential")
	ErrConflict             = errors.New("conflict")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrUnavailable          = errors.New("service unavailable")
)
