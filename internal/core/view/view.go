// Package view derives display fields from timer state. Every function here
// is pure.
package view

import (
	"fmt"

	"focusbar/internal/core/timer"
)

// Tone selects the display color.
type Tone string

const (
	ToneNominal   Tone = "nominal"
	ToneWarning   Tone = "warning"
	ToneUrgent    Tone = "urgent"
	TonePaused    Tone = "paused"
	ToneCompleted Tone = "completed"
)

// Icon selects the tray glyph.
type Icon string

const (
	IconTimer     Icon = "timer"
	IconPaused    Icon = "paused"
	IconCompleted Icon = "completed"
)

// Remaining-fraction thresholds for the tone.
const (
	warningFraction = 0.4
	urgentFraction  = 0.2
)

// View is the projection of one timer snapshot.
type View struct {
	State             timer.State
	TotalSeconds      int
	RemainingSeconds  int
	SessionsToday     int
	ElapsedFraction   float64
	RemainingFraction float64
	Display           string
	MenuLabel         string
	Tone              Tone
	Icon              Icon
}

// Project computes the view for the given fields.
func Project(state timer.State, totalSeconds, remainingSeconds, sessions int) View {
	return View{
		State:             state,
		TotalSeconds:      totalSeconds,
		RemainingSeconds:  remainingSeconds,
		SessionsToday:     sessions,
		ElapsedFraction:   ElapsedFraction(totalSeconds, remainingSeconds),
		RemainingFraction: RemainingFraction(totalSeconds, remainingSeconds),
		Display:           Display(remainingSeconds),
		MenuLabel:         MenuLabel(remainingSeconds),
		Tone:              ToneFor(state, totalSeconds, remainingSeconds),
		Icon:              IconFor(state),
	}
}

// FromSnapshot projects a timer snapshot.
func FromSnapshot(snapshot timer.Snapshot) View {
	return Project(snapshot.State, snapshot.TotalSeconds, snapshot.RemainingSeconds, snapshot.SessionsToday)
}

// ElapsedFraction is (total-remaining)/total, or 0 when total is 0.
func ElapsedFraction(totalSeconds, remainingSeconds int) float64 {
	if totalSeconds <= 0 {
		return 0
	}
	return float64(totalSeconds-remainingSeconds) / float64(totalSeconds)
}

// RemainingFraction is remaining/total, or 1 when total is 0.
func RemainingFraction(totalSeconds, remainingSeconds int) float64 {
	if totalSeconds <= 0 {
		return 1
	}
	return float64(remainingSeconds) / float64(totalSeconds)
}

// Display formats seconds as MM:SS.
func Display(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// MenuLabel is the compact tray text: "25m" on whole minutes, "4:05" inside
// a minute boundary and "42s" under a minute.
func MenuLabel(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes, rest := seconds/60, seconds%60
	if minutes == 0 {
		return fmt.Sprintf("%ds", rest)
	}
	if rest == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%d:%02d", minutes, rest)
}

// ToneFor picks the color for the state and remaining fraction.
func ToneFor(state timer.State, totalSeconds, remainingSeconds int) Tone {
	switch state {
	case timer.StatePaused:
		return TonePaused
	case timer.StateCompleted:
		return ToneCompleted
	}
	remaining := RemainingFraction(totalSeconds, remainingSeconds)
	switch {
	case remaining > warningFraction:
		return ToneNominal
	case remaining > urgentFraction:
		return ToneWarning
	default:
		return ToneUrgent
	}
}

// IconFor picks the tray glyph for the state.
func IconFor(state timer.State) Icon {
	switch state {
	case timer.StatePaused:
		return IconPaused
	case timer.StateCompleted:
		return IconCompleted
	default:
		return IconTimer
	}
}

// DurationLabel formats a run length as "25 min", "1 hour" or "1h 30m".
func DurationLabel(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours, rest := minutes/60, minutes%60
	if rest == 0 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, rest)
}
