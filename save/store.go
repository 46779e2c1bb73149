package save

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrSlotOutOfRange is returned for slot numbers outside MinSlot..MaxSlot
	ErrSlotOutOfRange = errors.New("save slot out of range")
	// ErrSlotEmpty is returned when loading a slot that was never written
	ErrSlotEmpty = errors.New("save slot is empty")
	// ErrCorrupt is returned when a stored blob cannot be decoded
	ErrCorrupt = errors.New("save data is corrupt")
	// ErrNotFound is returned by a Store for a missing key
	ErrNotFound = errors.New("key not found")
)

// Store is a flat key/value backend for save data
type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// MemoryStore keeps everything in a map. Used by tests and when no storage is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
