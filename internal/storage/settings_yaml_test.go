package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusbar/internal/ui/preferences"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettingsFile(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusbar", "settings.yaml")
	want := preferences.Settings{
		QuickStartPrimary:    50,
		QuickStartSecondary:  10,
		CustomMinutes:        90,
		ChimeEnabled:         false,
		TickCueSeconds:       5,
		NotificationsEnabled: false,
		LaunchAtLogin:        true,
	}

	require.NoError(t, SaveSettingsFile(path, want))
	got, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSettingsIgnoresOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	raw := "quick_start_primary_minutes: 0\ncustom_minutes: 500\ntick_cue_seconds: -3\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	settings, err := LoadSettingsFile(path)
	require.NoError(t, err)
	defaults := preferences.DefaultSettings()
	assert.Equal(t, defaults.QuickStartPrimary, settings.QuickStartPrimary)
	assert.Equal(t, defaults.CustomMinutes, settings.CustomMinutes)
	assert.Equal(t, defaults.TickCueSeconds, settings.TickCueSeconds)
	assert.True(t, settings.ChimeEnabled, "missing keys keep defaults")
}

func TestLoadSettingsRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("custom_minutes: [1,"), 0o644))

	settings, err := LoadSettingsFile(path)
	assert.Error(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}
