package storage

import "sync"

// MemoryMedium keeps blobs in a map. Used by tests and as a fallback when no
// durable driver is configured.
type MemoryMedium struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{blobs: make(map[string][]byte)}
}

func (m *MemoryMedium) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.blobs[key]
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true
}

func (m *MemoryMedium) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.blobs[key] = cp
	return nil
}

func (m *MemoryMedium) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *MemoryMedium) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs = make(map[string][]byte)
	return nil
}

func (m *MemoryMedium) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blobs[key]
	return ok
}
