package blob

import "errors"

var (
	// ErrObjectNotFound is returned when no blob exists at the requested path.
	ErrObjectNotFound = errors.New("object not found")

	// ErrUnauthorized is returned when the store rejects the request for
	// permission or configuration reasons.
	ErrUnauthorized = errors.New("storage access denied")

	// ErrTimeout is returned when the store does not answer in time.
	ErrTimeout = errors.New("storage timeout")

	// ErrStorageError is returned for any other store failure.
	ErrStorageError = errors.New("storage error")
)
