package services

import "fmt"

// ServiceError is the error taxonomy shared by all services. Handlers map each kind to an
// HTTP status.
type ServiceError string

func (e ServiceError) Error() string { return string(e) }

const (
	ErrUnauthorized ServiceError = "unauthorized"
	ErrForbidden    ServiceError = "forbidden"
	ErrNotFound     ServiceError = "not found"
	ErrInvalidInput ServiceError = "invalid input"
	ErrConflict     ServiceError = "conflict"
	ErrUpstream     ServiceError = "upstream failure"
	ErrConfig       ServiceError = "configuration is incomplete"
)

// kindError carries a caller-facing message while still matching its kind with errors.Is.
type kindError struct {
	kind ServiceError
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind ServiceError, format string, args ...interface{}) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// UpstreamError reports a failed call to an external API.
type UpstreamError struct {
	Service string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed (%d): %s", e.Service, e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID      uint
	IsAdmin bool
}

// CanManage reports whether the actor owns the resource or is an admin.
func (a Actor) CanManage(ownerID uint) bool {
	return a.IsAdmin || (a.ID != 0 && a.ID == ownerID)
}
