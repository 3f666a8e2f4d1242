package metadata

import "errors"

var (
	// ErrFileNotFound is returned when the requested file record does not exist.
	ErrFileNotFound = errors.New("file record not found")

	// ErrAccountNotFound is returned when the requested account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned when attempting to create an account that already exists.
	ErrAccountExists = errors.New("account already exists")

	// ErrShareTokenNotFound is returned when no file record carries the given share token.
	ErrShareTokenNotFound = errors.New("share token not found")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("database error")
)
