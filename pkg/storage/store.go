package storage

import (
	"errors"
	"sync"
)

// ErrUnavailable is returned by stores that cannot be reached
var ErrUnavailable = errors.New("storage unavailable")

// Store is a flat key-value store holding JSON documents
type Store interface {
	Save(key string, value []byte) error
	// Load returns ok=false when the key does not exist
	Load(key string) (value []byte, ok bool, err error)
	Remove(key string) error
}

// MemoryStore keeps documents in process memory
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	// FailWrites makes Save and Remove fail, to exercise rollback paths
	FailWrites bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Save(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrUnavailable
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Load(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrUnavailable
	}
	delete(m.data, key)
	return nil
}
