package blob

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore is an in-memory Store used for tests and local runs.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Put stores the blob content in memory.
func (m *MemoryStore) Put(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read blob content: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	return nil
}

// Get returns a copy of the stored content.
func (m *MemoryStore) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrObjectNotFound)
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Delete removes the blob, reporting ErrObjectNotFound for absent paths.
func (m *MemoryStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[path]; !ok {
		return fmt.Errorf("%s: %w", path, ErrObjectNotFound)
	}
	delete(m.objects, path)
	return nil
}

// Exists checks blob presence.
func (m *MemoryStore) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[path]
	return ok, nil
}

// URL returns a mem:// locator for the blob.
func (m *MemoryStore) URL(ctx context.Context, path string) (string, error) {
	exists, err := m.Exists(ctx, path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%s: %w", path, ErrObjectNotFound)
	}
	return "mem://" + path, nil
}

// Len reports how many blobs are stored. Used by tests.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
