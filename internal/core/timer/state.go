package timer

// State represents the timer lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// Active reports whether a run is in progress.
func (state State) Active() bool {
	return state == StateRunning || state == StatePaused
}

// Duration bounds accepted at every ingress boundary. The machine itself
// does not validate minutes.
const (
	MinMinutes     = 1
	MaxMinutes     = 120
	DefaultMinutes = 25
)

// ValidMinutes reports whether minutes is inside [MinMinutes, MaxMinutes].
func ValidMinutes(minutes int) bool {
	return minutes >= MinMinutes && minutes <= MaxMinutes
}

// Length selects the duration used by Start.
type Length struct {
	minutes int
}

// UseLastDuration starts with the last-used duration (or keeps the current
// one when a run is in progress).
func UseLastDuration() Length { return Length{} }

// UseMinutes starts a fresh run of the given length.
func UseMinutes(minutes int) Length { return Length{minutes: minutes} }

// Minutes returns the explicit minute count, if any.
func (length Length) Minutes() (int, bool) {
	if length.minutes == 0 {
		return 0, false
	}
	return length.minutes, true
}

// CommandKind enumerates state machine operations reachable from outside the
// owner goroutine.
type CommandKind string

const (
	CommandStart         CommandKind = "start"
	CommandToggle        CommandKind = "toggle"
	CommandPause         CommandKind = "pause"
	CommandResume        CommandKind = "resume"
	CommandReset         CommandKind = "reset"
	CommandSetDuration   CommandKind = "set_duration"
	CommandSetCustomTime CommandKind = "set_custom_time"
	CommandAddMinute     CommandKind = "add_minute"
)

// Command is a single request to mutate the timer. Minutes is used by
// SetDuration and SetCustomTime; Length by Start.
type Command struct {
	Kind    CommandKind
	Length  Length
	Minutes int
}

// Start builds a start command.
func Start(length Length) Command { return Command{Kind: CommandStart, Length: length} }

// Toggle builds a toggle command.
func Toggle() Command { return Command{Kind: CommandToggle} }

// Pause builds a pause command.
func Pause() Command { return Command{Kind: CommandPause} }

// Resume builds a resume command.
func Resume() Command { return Command{Kind: CommandResume} }

// Reset builds a reset command.
func Reset() Command { return Command{Kind: CommandReset} }

// SetDuration builds a set-duration command; it only applies while idle.
func SetDuration(minutes int) Command { return Command{Kind: CommandSetDuration, Minutes: minutes} }

// SetCustomTime builds a reset-then-start command.
func SetCustomTime(minutes int) Command {
	return Command{Kind: CommandSetCustomTime, Minutes: minutes}
}

// AddMinute builds an add-minute command.
func AddMinute() Command { return Command{Kind: CommandAddMinute} }
