package service

import (
	"context"
	"sync"
)

var _ FileStore = (*MemoryFileStore)(nil)

// MemoryFileStore holds uploaded bytes in process memory. Used when no
// object storage is configured, and in tests.
type MemoryFileStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{files: make(map[string][]byte)}
}

func (s *MemoryFileStore) Save(_ context.Context, contractID, _ string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.files[contractID] = buf
	return nil
}

func (s *MemoryFileStore) Get(_ context.Context, contractID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[contractID]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (s *MemoryFileStore) Delete(_ context.Context, contractID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, contractID)
	return nil
}
