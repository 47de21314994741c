// Package session counts completed runs per local calendar day.
package session

import (
	"log/slog"
	"strconv"
	"sync"

	"focusbar/internal/core/clock"
	"focusbar/internal/storage"
)

// DateLayout is the persisted form of a calendar day.
const DateLayout = "2006-01-02"

// Tracker keeps today's completed-session count. The count resets the first
// time it is read or incremented on a new local day.
type Tracker struct {
	store  storage.Store
	clock  clock.Clock
	logger *slog.Logger

	mu    sync.Mutex
	date  string
	count int
}

// NewTracker loads the persisted day and count from store.
func NewTracker(store storage.Store, source clock.Clock, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	count := storage.Int(store, storage.KeySavedSessionsToday, 0)
	if count < 0 {
		count = 0
	}
	return &Tracker{
		store:  store,
		clock:  source,
		logger: logger,
		date:   storage.String(store, storage.KeyLastSessionDate, ""),
		count:  count,
	}
}

// RecordCompletion increments today's count and returns the new value.
func (tracker *Tracker) RecordCompletion() int {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	tracker.rolloverLocked()
	tracker.count++
	tracker.persistLocked()
	return tracker.count
}

// CurrentCount returns today's count, resetting it if the day has changed.
func (tracker *Tracker) CurrentCount() int {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if tracker.rolloverLocked() {
		tracker.persistLocked()
	}
	return tracker.count
}

func (tracker *Tracker) today() string {
	return tracker.clock.Now().Local().Format(DateLayout)
}

func (tracker *Tracker) rolloverLocked() bool {
	today := tracker.today()
	if tracker.date == today {
		return false
	}
	tracker.date = today
	tracker.count = 0
	return true
}

func (tracker *Tracker) persistLocked() {
	err := tracker.store.Put(map[string]string{
		storage.KeyLastSessionDate:    tracker.date,
		storage.KeySavedSessionsToday: strconv.Itoa(tracker.count),
	})
	if err != nil {
		tracker.logger.Warn("persist session count", "date", tracker.date, "count", tracker.count, "error", err)
	}
}
