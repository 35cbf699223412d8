package filestorage

import (
	"context"
	"sync"
	"travel-order-backend/lib/utils/helpers"
)

func NewMemoryHandler() {
	Instance = NewMemoryInstance()
}

// NewMemoryInstance keeps files in process memory. Used when S3 is not configured and in tests.
func NewMemoryInstance() *MemoryStorage {
	return &MemoryStorage{files: map[string][]byte{}}
}

type MemoryStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func (m *MemoryStorage) Store(ctx context.Context, folder, fileName string, body []byte, contentType string) (string, error) {
	path := helpers.JoinPath(folder, fileName)
	m.Put(path, body)
	return path, nil
}

func (m *MemoryStorage) Put(path string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), body...)
}

func (m *MemoryStorage) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[path]
	return ok, nil
}

func (m *MemoryStorage) Read(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.files[path]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), body...), nil
}

func (m *MemoryStorage) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *MemoryStorage) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
