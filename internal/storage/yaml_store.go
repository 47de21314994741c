package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// YAMLFile is a Store backed by a single YAML mapping on disk. Each Put
// rewrites the whole file through a temp file and rename so readers never
// see a partial document.
type YAMLFile struct {
	path   string
	mu     sync.Mutex
	values map[string]string
	closed bool
}

// OpenYAML loads path. A missing file yields an empty store.
func OpenYAML(path string) (*YAMLFile, error) {
	store := &YAMLFile{path: path, values: make(map[string]string)}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if err := yaml.Unmarshal(rawData, &store.values); err != nil {
		return nil, fmt.Errorf("parse state yaml: %w", err)
	}
	if store.values == nil {
		store.values = make(map[string]string)
	}
	return store, nil
}

// Get returns the value stored under key.
func (store *YAMLFile) Get(key string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.closed {
		return "", false, ErrClosed
	}
	value, ok := store.values[key]
	return value, ok, nil
}

// Put merges values and writes the file. On failure the previous contents
// stay in place both on disk and in memory.
func (store *YAMLFile) Put(values map[string]string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.closed {
		return ErrClosed
	}

	merged := make(map[string]string, len(store.values)+len(values))
	for key, value := range store.values {
		merged[key] = value
	}
	for key, value := range values {
		merged[key] = value
	}

	serialized, err := yaml.Marshal(merged)
	if err != nil {
		return fmt.Errorf("marshal state yaml: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp := store.path + ".tmp"
	if err := os.WriteFile(tmp, serialized, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, store.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace state file: %w", err)
	}

	store.values = merged
	return nil
}

// Close releases the store. The file needs no explicit flush.
func (store *YAMLFile) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.closed = true
	return nil
}
