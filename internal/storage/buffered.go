package storage

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
)

// Buffered keeps an in-memory copy of every value in front of a backing
// Store. A failed read falls back to defaults for the rest of the process; a
// failed write keeps the value in memory and retries it with the next Put.
type Buffered struct {
	backing Store
	logger  *slog.Logger

	mu      sync.Mutex
	values  map[string]string
	known   map[string]bool
	pending map[string]string
}

// NewBuffered wraps backing.
func NewBuffered(backing Store, logger *slog.Logger) *Buffered {
	if logger == nil {
		logger = slog.Default()
	}
	return &Buffered{
		backing: backing,
		logger:  logger,
		values:  make(map[string]string),
		known:   make(map[string]bool),
		pending: make(map[string]string),
	}
}

// Get returns the cached value, reading through to the backing store the
// first time a key is requested. Read errors are logged, never returned.
func (store *Buffered) Get(key string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if value, ok := store.values[key]; ok {
		return value, true, nil
	}
	if store.known[key] {
		return "", false, nil
	}
	store.known[key] = true

	value, ok, err := store.backing.Get(key)
	if err != nil {
		store.logger.Warn("read persisted value, using default", "key", key, "error", err)
		return "", false, nil
	}
	if ok {
		store.values[key] = value
	}
	return value, ok, nil
}

// Put updates memory first, then writes every pending value as one unit.
func (store *Buffered) Put(values map[string]string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for key, value := range values {
		store.values[key] = value
		store.known[key] = true
		store.pending[key] = value
	}
	return store.flushLocked()
}

// Flush retries pending writes without adding new values.
func (store *Buffered) Flush() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.flushLocked()
}

// Pending returns how many values have not reached the backing store.
func (store *Buffered) Pending() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.pending)
}

// Close flushes and closes the backing store.
func (store *Buffered) Close() error {
	flushErr := store.Flush()
	if err := store.backing.Close(); err != nil {
		return fmt.Errorf("close backing store: %w", err)
	}
	return flushErr
}

func (store *Buffered) flushLocked() error {
	if len(store.pending) == 0 {
		return nil
	}
	batch := make(map[string]string, len(store.pending))
	for key, value := range store.pending {
		batch[key] = value
	}
	if err := store.backing.Put(batch); err != nil {
		return fmt.Errorf("persist %d value(s): %w", len(batch), err)
	}
	store.pending = make(map[string]string)
	return nil
}

// Durations exposes the last-used run length stored in a Store.
type Durations struct {
	store          Store
	defaultMinutes int
}

// NewDurations returns Durations reading from store.
func NewDurations(store Store, defaultMinutes int) *Durations {
	return &Durations{store: store, defaultMinutes: defaultMinutes}
}

// LastUsedMinutes returns the persisted duration or the default.
func (durations *Durations) LastUsedMinutes() int {
	minutes := Int(durations.store, KeyLastUsedMinutes, durations.defaultMinutes)
	if minutes <= 0 {
		return durations.defaultMinutes
	}
	return minutes
}

// SetLastUsedMinutes persists minutes.
func (durations *Durations) SetLastUsedMinutes(minutes int) error {
	return durations.store.Put(map[string]string{
		KeyLastUsedMinutes: strconv.Itoa(minutes),
	})
}
