package models

import "errors"

// Sentinel error kinds. Handlers map these to HTTP statuses; services and
// repositories add context with fmt.Errorf and %w so errors.Is still matches.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")
	ErrValidation      = errors.New("validation failed")
)

// StatusError pairs a sentinel kind with the client-facing message. Domain
// errors (404/409) are raised deliberately by services after an explicit
// check, never inferred from storage exceptions leaking through.
type StatusError struct {
	Kind    error
	Message string
}

func (e *StatusError) Error() string { return e.Message }

func (e *StatusError) Unwrap() error { return e.Kind }

func NotFound(message string) error {
	return &StatusError{Kind: ErrNotFound, Message: message}
}

func Conflict(message string) error {
	return &StatusError{Kind: ErrConflict, Message: message}
}

func Unauthenticated(message string) error {
	return &StatusError{Kind: ErrUnauthenticated, Message: message}
}

func Forbidden(message string) error {
	return &StatusError{Kind: ErrForbidden, Message: message}
}

func BadRequest(message string) error {
	return &StatusError{Kind: ErrBadRequest, Message: message}
}
