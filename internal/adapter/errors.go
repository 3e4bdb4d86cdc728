package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteCall matches every failed remote call, transport errors and
	// non-2xx answers alike.
	ErrRemoteCall = errors.New("remote call failed")

	// ErrInvalidSource is returned when a source has no usable location.
	ErrInvalidSource = errors.New("invalid source")

	// ErrDecodingResponse is returned when a response body is not JSON.
	ErrDecodingResponse = errors.New("error decoding remote response")
)

// Status sentinels wrapped by [RemoteCallError].
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUnprocessableEntity = errors.New("unprocessable entity")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrUnavailable         = errors.New("service unavailable")
	ErrUnexpectedStatus    = errors.New("unexpected status")
)

// RemoteCallError describes a non-2xx answer of a remote source.
type RemoteCallError struct {
	Method string
	URL    string
	Status int
	// Body is the trimmed response body, kept for diagnostics.
	Body string

	kind error
}

func (e *RemoteCallError) Error() string {
	body := e.Body
	if body == "" && e.kind != nil {
		body = e.kind.Error()
	}
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.URL, e.Status, body)
}

// Unwrap exposes both [ErrRemoteCall] and the status sentinel.
func (e *RemoteCallError) Unwrap() []error {
	return []error{ErrRemoteCall, e.kind}
}
