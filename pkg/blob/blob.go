package blob

import (
	"context"
	"io"
)

// Store defines the interface for path-addressed binary blob storage.
// Paths are opaque locators of the form "users/{owner}/{ts}_{name}" and
// are never reused once deleted.
type Store interface {
	// Put writes the blob at the given path, replacing any existing object.
	Put(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error

	// Get retrieves the full blob content.
	// Returns ErrObjectNotFound if no object exists at the path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Delete removes the blob at the given path.
	// Deleting an absent blob returns ErrObjectNotFound; callers decide
	// whether that is benign.
	Delete(ctx context.Context, path string) error

	// Exists checks whether a blob is present at the path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns a retrievable URL for the blob, best effort. Stores that
	// cannot mint one return an error and callers fall back to the raw path.
	URL(ctx context.Context, path string) (string, error)
}
