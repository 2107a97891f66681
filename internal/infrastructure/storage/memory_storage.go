package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	reviewapp "github.com/finnov/backend/internal/application/review"
	"github.com/finnov/backend/internal/domain/shared"
)

// Ensure MemoryObjectStorage implements the application port
var _ reviewapp.ObjectStorage = (*MemoryObjectStorage)(nil)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryObjectStorage is an in-memory ObjectStorage for tests and local
// development without an S3 backend.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryObjectStorage creates an empty in-memory object store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		objects: make(map[string]memoryObject),
	}
}

// Upload stores the content of r under storageKey.
func (m *MemoryObjectStorage) Upload(_ context.Context, storageKey string, r io.Reader, contentType string) error {
	if storageKey == "" {
		return fmt.Errorf("storage key is required")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read upload content: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[storageKey] = memoryObject{data: data, contentType: contentType}
	return nil
}

// Download returns the stored object content.
func (m *MemoryObjectStorage) Download(_ context.Context, storageKey string) (io.ReadCloser, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[storageKey]
	if !ok {
		return nil, 0, fmt.Errorf("object %q: %w", storageKey, shared.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), int64(len(obj.data)), nil
}

// GenerateDownloadURL returns a fake URL pointing at the stored key.
func (m *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.objects[storageKey]; !ok {
		return "", time.Time{}, fmt.Errorf("object %q: %w", storageKey, shared.ErrNotFound)
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	return "memory://" + storageKey, time.Now().Add(expiresIn), nil
}

// DeleteObject removes the object. Deleting a missing key is a no-op.
func (m *MemoryObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, storageKey)
	return nil
}

// ObjectExists reports whether the object is present.
func (m *MemoryObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[storageKey]
	return ok, nil
}

// Len returns the number of stored objects
func (m *MemoryObjectStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
