package timer

import "time"

// Snapshot is an immutable view of the timer published to observers.
type Snapshot struct {
	State            State
	TotalSeconds     int
	RemainingSeconds int
	SessionsToday    int
	At               time.Time
}
