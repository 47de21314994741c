// Package storage persists the timer's scalar state and the user settings.
package storage

import (
	"errors"
	"strconv"
)

// Persisted scalar keys.
const (
	KeyLastUsedMinutes    = "lastUsedMinutes"
	KeyLastSessionDate    = "lastSessionDate"
	KeySavedSessionsToday = "savedSessionsToday"
)

// ErrClosed is returned by a store after Close.
var ErrClosed = errors.New("store closed")

// Store is a flat string key/value store. Put writes every given pair as one
// unit: after a crash either all of them or none of them are visible.
type Store interface {
	Get(key string) (string, bool, error)
	Put(values map[string]string) error
	Close() error
}

// Int reads key as an integer, returning fallback when the key is missing,
// unreadable or not a number.
func Int(store Store, key string, fallback int) int {
	raw, ok, err := store.Get(key)
	if err != nil || !ok {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// String reads key, returning fallback when the key is missing or unreadable.
func String(store Store, key string, fallback string) string {
	raw, ok, err := store.Get(key)
	if err != nil || !ok {
		return fallback
	}
	return raw
}
