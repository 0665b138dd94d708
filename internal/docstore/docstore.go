// Package docstore provides blob storage for generated receipts and
// applicant uploads.
package docstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/campushire/faculty-portal/internal/apperr"
	"github.com/campushire/faculty-portal/internal/types"
)

type blob struct {
	name        string
	contentType string
	data        []byte
}

// Memory is an in-process document store. It backs local development and
// tests; a bucket-backed implementation satisfies the same interface.
type Memory struct {
	mu    sync.Mutex
	blobs map[string]blob
}

// NewMemory creates an empty in-memory document store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]blob)}
}

// Upload stores the bytes under a fresh key and returns a reference to them.
func (m *Memory) Upload(ctx context.Context, name string, contentType string, data []byte) (types.DocumentRef, error) {
	if len(data) == 0 {
		return types.DocumentRef{}, apperr.NewValidation("document is empty", nil)
	}

	key := "mem://" + uuid.New().String()
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	m.blobs[key] = blob{name: name, contentType: contentType, data: stored}
	m.mu.Unlock()

	return types.DocumentRef{
		URL:         key,
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(stored)),
	}, nil
}

// Delete removes the referenced blob.
func (m *Memory) Delete(ctx context.Context, ref types.DocumentRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[ref.URL]; !ok {
		return apperr.New(apperr.CodeNotFound, fmt.Sprintf("document %s not found", ref.URL), nil)
	}
	delete(m.blobs, ref.URL)
	return nil
}

// Get returns a stored blob. Tests use it to assert on uploaded receipts.
func (m *Memory) Get(ref types.DocumentRef) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blobs[ref.URL]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out, true
}

// Len reports the number of stored blobs.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
