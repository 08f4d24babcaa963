package storage

import "errors"

var (
	// ErrUnavailable is returned when the backend could not be read or written.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrMalformed is returned when a stored value is not the expected shape.
	ErrMalformed = errors.New("malformed persisted data")
)
