package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()

	_, ok, err := store.Get(KeyLastUsedMinutes)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(map[string]string{
		KeyLastSessionDate:    "2026-03-02",
		KeySavedSessionsToday: "3",
	}))
	require.NoError(t, store.Put(map[string]string{KeySavedSessionsToday: "4"}))

	assert.Equal(t, "2026-03-02", String(store, KeyLastSessionDate, ""))
	assert.Equal(t, 4, Int(store, KeySavedSessionsToday, 0))
	assert.Equal(t, 25, Int(store, KeyLastUsedMinutes, 25))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	exerciseStore(t, store)

	require.NoError(t, store.Close())
	_, _, err := store.Get(KeyLastSessionDate)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Put(map[string]string{"a": "b"}), ErrClosed)
}

func TestYAMLStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")

	store, err := OpenYAML(path)
	require.NoError(t, err)
	exerciseStore(t, store)
	require.NoError(t, store.Close())

	reopened, err := OpenYAML(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 4, Int(reopened, KeySavedSessionsToday, 0))
	assert.Equal(t, "2026-03-02", String(reopened, KeyLastSessionDate, ""))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestYAMLStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not: [valid"), 0o600))

	_, err := OpenYAML(path)
	assert.Error(t, err)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.sqlite")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	exerciseStore(t, store)
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 4, Int(reopened, KeySavedSessionsToday, 0))
}

func TestIntFallsBackOnGarbage(t *testing.T) {
	store := NewMemory()
	require.NoError(t, store.Put(map[string]string{KeyLastUsedMinutes: "twenty"}))
	assert.Equal(t, 25, Int(store, KeyLastUsedMinutes, 25))
}

type flakyStore struct {
	*Memory
	readErr  error
	writeErr error
	puts     int
}

func (store *flakyStore) Get(key string) (string, bool, error) {
	if store.readErr != nil {
		return "", false, store.readErr
	}
	return store.Memory.Get(key)
}

func (store *flakyStore) Put(values map[string]string) error {
	store.puts++
	if store.writeErr != nil {
		return store.writeErr
	}
	return store.Memory.Put(values)
}

func TestBufferedReadFailureUsesDefaults(t *testing.T) {
	backing := &flakyStore{Memory: NewMemory(), readErr: errors.New("disk gone")}
	store := NewBuffered(backing, nil)

	durations := NewDurations(store, 25)
	assert.Equal(t, 25, durations.LastUsedMinutes())
}

func TestBufferedWriteFailureRetriesOnNextPut(t *testing.T) {
	backing := &flakyStore{Memory: NewMemory(), writeErr: errors.New("read-only")}
	store := NewBuffered(backing, nil)

	err := store.Put(map[string]string{KeyLastUsedMinutes: "40"})
	require.Error(t, err)
	assert.Equal(t, 1, store.Pending())
	assert.Equal(t, 40, Int(store, KeyLastUsedMinutes, 25), "memory keeps the value")

	backing.writeErr = nil
	require.NoError(t, store.Put(map[string]string{KeySavedSessionsToday: "2"}))
	assert.Zero(t, store.Pending())
	assert.Equal(t, 40, Int(backing.Memory, KeyLastUsedMinutes, 0))
	assert.Equal(t, 2, Int(backing.Memory, KeySavedSessionsToday, 0))
}

func TestBufferedCachesReads(t *testing.T) {
	backing := &flakyStore{Memory: NewMemory()}
	require.NoError(t, backing.Memory.Put(map[string]string{KeyLastUsedMinutes: "15"}))
	store := NewBuffered(backing, nil)

	assert.Equal(t, 15, Int(store, KeyLastUsedMinutes, 25))
	backing.readErr = errors.New("late failure")
	assert.Equal(t, 15, Int(store, KeyLastUsedMinutes, 25))
}

func TestDurationsRoundTrip(t *testing.T) {
	durations := NewDurations(NewMemory(), 25)
	assert.Equal(t, 25, durations.LastUsedMinutes())

	require.NoError(t, durations.SetLastUsedMinutes(50))
	assert.Equal(t, 50, durations.LastUsedMinutes())
}
