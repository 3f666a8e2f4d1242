package share

import "errors"

var (
	// ErrAuthenticationRequired is returned when the owner id is missing or empty.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrInvalidExpiry is returned when the requested expiry is not a
	// positive number of hours.
	ErrInvalidExpiry = errors.New("expiry hours must be positive")

	// ErrFileNotFound is returned when the file to share does not exist
	// for the owner.
	ErrFileNotFound = errors.New("file not found")

	// ErrShareNotFound is returned when no file carries the given token.
	ErrShareNotFound = errors.New("share link not found")

	// ErrShareExpired is returned when the share link's expiry has passed.
	ErrShareExpired = errors.New("share link expired")
)
