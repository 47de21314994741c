package storage

import "sync"

// Memory is an in-process Store. It is used when no file store can be
// opened and in tests.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	closed bool
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (store *Memory) Get(key string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.closed {
		return "", false, ErrClosed
	}
	value, ok := store.values[key]
	return value, ok, nil
}

// Put stores every pair.
func (store *Memory) Put(values map[string]string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.closed {
		return ErrClosed
	}
	for key, value := range values {
		store.values[key] = value
	}
	return nil
}

// Close marks the store closed.
func (store *Memory) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.closed = true
	return nil
}
