package preferences

import (
	"focusbar/internal/core/model"
	"focusbar/internal/core/timer"
)

// MaxTickCueSeconds bounds the final-seconds tick cue window.
const MaxTickCueSeconds = 60

// Settings defines editable user preferences.
type Settings struct {
	QuickStartPrimary   int
	QuickStartSecondary int
	CustomMinutes       int

	ChimeEnabled         bool
	TickCueSeconds       int
	NotificationsEnabled bool
	LaunchAtLogin        bool
}

// DefaultSettings returns default settings for FocusBar.
func DefaultSettings() Settings {
	return Settings{
		QuickStartPrimary:    25,
		QuickStartSecondary:  5,
		CustomMinutes:        25,
		ChimeEnabled:         true,
		TickCueSeconds:       0,
		NotificationsEnabled: true,
		LaunchAtLogin:        false,
	}
}

// TimerConfig converts settings to a TimerConfig.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		DefaultMinutes: timer.DefaultMinutes,
		TickCueSeconds: settings.TickCueSeconds,
	}
}
