package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDataProvided   = errors.New("invalid data provided")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	// ErrConfiguration marks a missing or unusable source, mapping, schema
	// or handler setting.
	ErrConfiguration = errors.New("configuration error")
	// ErrHandlerNotFound is returned for an unknown handler name.
	ErrHandlerNotFound = errors.New("handler not found")
	// ErrUnsupportedStrategy is returned when a handler cannot run the
	// requested operation, e.g. a pass of an inline handler.
	ErrUnsupportedStrategy = errors.New("unsupported strategy")

	// ErrAmbiguousKey is returned when a natural key matches more than one
	// object.
	ErrAmbiguousKey = errors.New("ambiguous natural key")
	// ErrTypeMismatch is returned when an object's type is not handled by
	// the handler it was given to.
	ErrTypeMismatch = errors.New("object type is not handled")
	// ErrDocumentProcessing marks a document that could not be decoded,
	// typed or uploaded.
	ErrDocumentProcessing = errors.New("document processing failed")
)

// AmbiguousKeyError reports every natural-key lookup with several matches.
type AmbiguousKeyError struct {
	SchemaRef string
	Field     string
	Value     any
	Matches   int
}

func (e *AmbiguousKeyError) Error() string {
	return fmt.Sprintf("%s: %d objects of %q have %s=%v", ErrAmbiguousKey, e.Matches, e.SchemaRef, e.Field, e.Value)
}

func (e *AmbiguousKeyError) Unwrap() error {
	return ErrAmbiguousKey
}

// PassError is returned when a pass cannot run at all. Candidate failures
// never produce a PassError; they are reported per candidate.
type PassError struct {
	Handler string
	Err     error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("pass of handler %q: %s", e.Handler, e.Err)
}

func (e *PassError) Unwrap() error {
	return e.Err
}
