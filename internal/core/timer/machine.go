// Package timer owns the countdown state and every transition on it.
package timer

import (
	"fmt"
	"log/slog"

	"focusbar/internal/core/model"
)

// Notice is the payload handed to a Notifier when a run completes.
type Notice struct {
	Title string
	Body  string
}

// Notifier delivers a completion notice.
type Notifier interface {
	Notify(notice Notice) error
}

// Chime plays audible cues.
type Chime interface {
	PlayCompletion() error
	PlayTick() error
}

// SessionTracker counts completed runs for the current day.
type SessionTracker interface {
	RecordCompletion() int
	CurrentCount() int
}

// DurationStore persists the last-used run length.
type DurationStore interface {
	LastUsedMinutes() int
	SetLastUsedMinutes(minutes int) error
}

// Armer starts and stops tick delivery. Both calls must be idempotent.
type Armer interface {
	Arm()
	Disarm()
}

// Dependencies are the collaborators a Machine calls out to.
type Dependencies struct {
	Clock     Armer
	Sessions  SessionTracker
	Notifier  Notifier
	Chime     Chime
	Durations DurationStore
	Logger    *slog.Logger
}

// Machine is the timer state machine. It is not safe for concurrent use;
// Service confines it to a single goroutine.
type Machine struct {
	config           model.TimerConfig
	deps             Dependencies
	state            State
	totalSeconds     int
	remainingSeconds int
}

// NewMachine creates an idle Machine loaded with the last-used duration.
func NewMachine(config model.TimerConfig, deps Dependencies) *Machine {
	if config.DefaultMinutes <= 0 {
		config.DefaultMinutes = DefaultMinutes
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = nopArmer{}
	}
	if deps.Sessions == nil {
		deps.Sessions = &memorySessions{}
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Chime == nil {
		deps.Chime = nopChime{}
	}
	if deps.Durations == nil {
		deps.Durations = &memoryDurations{}
	}

	machine := &Machine{
		config: config,
		deps:   deps,
		state:  StateIdle,
	}
	machine.totalSeconds = machine.lastUsedMinutes() * 60
	machine.remainingSeconds = machine.totalSeconds
	return machine
}

// State returns the lifecycle state.
func (machine *Machine) State() State { return machine.state }

// TotalSeconds returns the configured length of the current or last run.
func (machine *Machine) TotalSeconds() int { return machine.totalSeconds }

// RemainingSeconds returns the seconds left in the current run.
func (machine *Machine) RemainingSeconds() int { return machine.remainingSeconds }

// SetTickCue updates how many final seconds play the tick cue.
func (machine *Machine) SetTickCue(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	machine.config.TickCueSeconds = seconds
}

// Apply executes a command.
func (machine *Machine) Apply(command Command) {
	switch command.Kind {
	case CommandStart:
		machine.Start(command.Length)
	case CommandToggle:
		machine.Toggle()
	case CommandPause:
		machine.Pause()
	case CommandResume:
		machine.Resume()
	case CommandReset:
		machine.Reset()
	case CommandSetDuration:
		machine.SetDuration(command.Minutes)
	case CommandSetCustomTime:
		machine.SetCustomTime(command.Minutes)
	case CommandAddMinute:
		machine.AddMinute()
	default:
		machine.deps.Logger.Debug("unknown timer command dropped", "kind", command.Kind)
	}
}

// Start begins a run. An explicit length always starts fresh. Without one,
// an idle or completed timer reloads the last-used duration and a paused
// timer continues where it stopped.
func (machine *Machine) Start(length Length) {
	if minutes, ok := length.Minutes(); ok {
		if machine.state != StateIdle {
			machine.Reset()
		}
		machine.totalSeconds = minutes * 60
		machine.remainingSeconds = machine.totalSeconds
		if err := machine.deps.Durations.SetLastUsedMinutes(minutes); err != nil {
			machine.deps.Logger.Warn("persist last-used duration", "minutes", minutes, "error", err)
		}
	} else if machine.state == StateIdle || machine.state == StateCompleted {
		machine.totalSeconds = machine.lastUsedMinutes() * 60
		machine.remainingSeconds = machine.totalSeconds
	}

	machine.state = StateRunning
	machine.deps.Clock.Arm()
}

// Pause freezes a running timer. Other states are left untouched.
func (machine *Machine) Pause() {
	if machine.state != StateRunning {
		return
	}
	machine.deps.Clock.Disarm()
	machine.state = StatePaused
}

// Resume continues a paused timer.
func (machine *Machine) Resume() {
	if machine.state != StatePaused {
		return
	}
	machine.state = StateRunning
	machine.deps.Clock.Arm()
}

// Reset returns to idle with the full duration restored.
func (machine *Machine) Reset() {
	machine.deps.Clock.Disarm()
	machine.state = StateIdle
	machine.remainingSeconds = machine.totalSeconds
}

// Toggle performs the primary action for the current state.
func (machine *Machine) Toggle() {
	switch machine.state {
	case StateIdle:
		machine.Start(UseLastDuration())
	case StateRunning:
		machine.Pause()
	case StatePaused:
		machine.Resume()
	case StateCompleted:
		machine.Reset()
	}
}

// SetDuration changes the idle duration and remembers it as the last-used
// one. It is ignored in any other state.
func (machine *Machine) SetDuration(minutes int) {
	if machine.state != StateIdle {
		machine.deps.Logger.Debug("set duration ignored", "state", machine.state, "minutes", minutes)
		return
	}
	machine.totalSeconds = minutes * 60
	machine.remainingSeconds = machine.totalSeconds
	if err := machine.deps.Durations.SetLastUsedMinutes(minutes); err != nil {
		machine.deps.Logger.Warn("persist last-used duration", "minutes", minutes, "error", err)
	}
}

// SetCustomTime resets and starts a run of the given length.
func (machine *Machine) SetCustomTime(minutes int) {
	machine.Reset()
	machine.Start(UseMinutes(minutes))
}

// AddMinute extends an active run by sixty seconds.
func (machine *Machine) AddMinute() {
	if !machine.state.Active() {
		return
	}
	machine.totalSeconds += 60
	machine.remainingSeconds += 60
}

// Tick advances a running timer by one second.
func (machine *Machine) Tick() {
	if machine.state != StateRunning {
		return
	}
	if machine.remainingSeconds <= 0 {
		machine.complete()
		return
	}

	machine.remainingSeconds--
	if machine.remainingSeconds == 0 {
		machine.complete()
		return
	}
	if machine.remainingSeconds <= machine.config.TickCueSeconds {
		if err := machine.deps.Chime.PlayTick(); err != nil {
			machine.deps.Logger.Warn("play tick cue", "error", err)
		}
	}
}

func (machine *Machine) complete() {
	machine.deps.Clock.Disarm()
	machine.state = StateCompleted
	machine.remainingSeconds = 0

	count := machine.deps.Sessions.RecordCompletion()
	if err := machine.deps.Chime.PlayCompletion(); err != nil {
		machine.deps.Logger.Warn("play completion cue", "error", err)
	}
	notice := Notice{
		Title: "Time's Up!",
		Body:  fmt.Sprintf("Session #%d complete. Great work!", count),
	}
	if err := machine.deps.Notifier.Notify(notice); err != nil {
		machine.deps.Logger.Warn("deliver completion notice", "error", err)
	}
	machine.deps.Logger.Info("timer completed", "total_seconds", machine.totalSeconds, "sessions_today", count)
}

func (machine *Machine) lastUsedMinutes() int {
	minutes := machine.deps.Durations.LastUsedMinutes()
	if minutes <= 0 {
		return machine.config.DefaultMinutes
	}
	return minutes
}

type nopArmer struct{}

func (nopArmer) Arm()    {}
func (nopArmer) Disarm() {}

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) error { return nil }

type nopChime struct{}

func (nopChime) PlayCompletion() error { return nil }
func (nopChime) PlayTick() error       { return nil }

type memorySessions struct {
	count int
}

func (sessions *memorySessions) RecordCompletion() int {
	sessions.count++
	return sessions.count
}

func (sessions *memorySessions) CurrentCount() int { return sessions.count }

type memoryDurations struct {
	minutes int
}

func (durations *memoryDurations) LastUsedMinutes() int { return durations.minutes }

func (durations *memoryDurations) SetLastUsedMinutes(minutes int) error {
	durations.minutes = minutes
	return nil
}
