package cache

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-process [Store] backed by a mutex-guarded map.
//
// It is the default backend and the test double for the persistent stores.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return data, true, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]byte, len(value))
	copy(copied, value)
	m.entries[key] = copied
	return nil
}

func (m *MemoryStore) DeleteMatched(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string][]byte)
	return nil
}

// Len reports the number of live entries, for tests and diagnostics.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
