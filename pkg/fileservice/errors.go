package fileservice

import "errors"

var (
	// ErrAuthenticationRequired is returned when the owner id is missing or empty.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrEmptyFile is returned when an upload carries zero bytes.
	ErrEmptyFile = errors.New("file is empty")

	// ErrFileTooLarge is returned when an upload exceeds the 5 GiB per-file cap.
	ErrFileTooLarge = errors.New("file exceeds maximum size of 5 GiB")

	// ErrStorageUnauthorized is returned when the blob store rejects the
	// request for permission or configuration reasons.
	ErrStorageUnauthorized = errors.New("storage permission denied")

	// ErrStorageTimeout is returned when the blob store does not answer in time.
	ErrStorageTimeout = errors.New("storage timeout")

	// ErrNetwork is returned for transport-level failures against either store.
	ErrNetwork = errors.New("network error")

	// ErrNotFound is returned when the requested file does not exist.
	// Benign for delete, a failure for download.
	ErrNotFound = errors.New("file not found")

	// ErrUnknown is the catch-all; the underlying message is preserved
	// in the wrap for diagnostics.
	ErrUnknown = errors.New("unknown storage failure")
)
