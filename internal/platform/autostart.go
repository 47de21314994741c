package platform

import (
	"fmt"
	"os"
	"strings"
)

// Autostart registers the application to launch at login.
type Autostart interface {
	Enable(execPath string) error
	Disable() error
	Enabled() bool
}

type loginItem struct {
	appName string
	// dir overrides the OS location of the login entry; empty uses the default.
	dir string
}

// NewAutostart returns the login item for appName in the OS default location.
func NewAutostart(appName string) Autostart {
	return &loginItem{appName: appName}
}

// Sync enables or disables autostart for the running executable.
func Sync(autostart Autostart, enabled bool) error {
	if !enabled {
		return autostart.Disable()
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	return autostart.Enable(execPath)
}

// configDir returns the OS-standard configuration directory.
func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err == nil && dir != "" {
		return dir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}
	return fallbackConfigDir(homeDir), nil
}

func slug(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "focusbar"
	}
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
