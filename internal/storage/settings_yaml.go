package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"focusbar/internal/core/timer"
	"focusbar/internal/ui/preferences"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	QuickStartPrimary    int   `yaml:"quick_start_primary_minutes"`
	QuickStartSecondary  int   `yaml:"quick_start_secondary_minutes"`
	CustomMinutes        int   `yaml:"custom_minutes"`
	ChimeEnabled         *bool `yaml:"chime_enabled"`
	TickCueSeconds       int   `yaml:"tick_cue_seconds"`
	NotificationsEnabled *bool `yaml:"notifications_enabled"`
	LaunchAtLogin        bool  `yaml:"launch_at_login"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := ResolvePath(appName, settingsFileName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user preferences from an explicit path.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := ResolvePath(appName, settingsFileName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes user preferences to an explicit path.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	chime := settings.ChimeEnabled
	notifications := settings.NotificationsEnabled
	fileData := yamlSettings{
		QuickStartPrimary:    settings.QuickStartPrimary,
		QuickStartSecondary:  settings.QuickStartSecondary,
		CustomMinutes:        settings.CustomMinutes,
		ChimeEnabled:         &chime,
		TickCueSeconds:       settings.TickCueSeconds,
		NotificationsEnabled: &notifications,
		LaunchAtLogin:        settings.LaunchAtLogin,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// ResolvePath returns fileName inside the per-user config directory.
func ResolvePath(appName, fileName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, fileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if timer.ValidMinutes(fileData.QuickStartPrimary) {
		settings.QuickStartPrimary = fileData.QuickStartPrimary
	}
	if timer.ValidMinutes(fileData.QuickStartSecondary) {
		settings.QuickStartSecondary = fileData.QuickStartSecondary
	}
	if timer.ValidMinutes(fileData.CustomMinutes) {
		settings.CustomMinutes = fileData.CustomMinutes
	}
	if fileData.TickCueSeconds >= 0 && fileData.TickCueSeconds <= preferences.MaxTickCueSeconds {
		settings.TickCueSeconds = fileData.TickCueSeconds
	}

	if fileData.ChimeEnabled != nil {
		settings.ChimeEnabled = *fileData.ChimeEnabled
	}
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	settings.LaunchAtLogin = fileData.LaunchAtLogin
}
