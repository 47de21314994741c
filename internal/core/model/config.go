package model

import "time"

// TimerConfig contains runtime settings for the timer state machine.
type TimerConfig struct {
	// DefaultMinutes is used when nothing was persisted yet.
	DefaultMinutes int
	// TickCueSeconds plays the tick cue during the final seconds of a run.
	// Zero disables it.
	TickCueSeconds int
}

// ServiceConfig contains options for the timer owner loop.
type ServiceConfig struct {
	TickInterval  time.Duration
	CommandBuffer int
}
