package bus

import "errors"

var (
	// ErrBusClosed is returned by Publish after Close has been called.
	ErrBusClosed = errors.New("bus is closed")

	// ErrEmptyTopic is returned by Publish when topic is empty.
	ErrEmptyTopic = errors.New("topic must not be empty")
)
