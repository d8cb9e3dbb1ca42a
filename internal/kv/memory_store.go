package kv

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)
var _ Scoper = (*MemoryStore)(nil)

// MemoryStore keeps everything in process memory, used for development and tests
type MemoryStore struct {
	backend   *memoryBackend
	namespace string
}

type memoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		backend: &memoryBackend{
			values: make(map[string]string),
		},
	}
}

func (s *MemoryStore) Scoped(namespace string) Store {
	return &MemoryStore{
		backend:   s.backend,
		namespace: namespace,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	value, ok := s.backend.values[namespacedKey(s.namespace, key)]
	return value, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	s.backend.values[namespacedKey(s.namespace, key)] = value
	return nil
}

// Len returns the number of keys over all namespaces
func (s *MemoryStore) Len() int {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	return len(s.backend.values)
}
