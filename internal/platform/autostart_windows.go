//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (item *loginItem) Enable(execPath string) error {
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}

	output, err := exec.Command(
		"reg", "add", registryRunKey,
		"/v", item.valueName(),
		"/t", "REG_SZ",
		"/d", quoteWindowsPath(execPath),
		"/f",
	).CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (item *loginItem) Disable() error {
	if !item.Enabled() {
		return nil
	}
	output, err := exec.Command("reg", "delete", registryRunKey, "/v", item.valueName(), "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (item *loginItem) Enabled() bool {
	return exec.Command("reg", "query", registryRunKey, "/v", item.valueName()).Run() == nil
}

func (item *loginItem) valueName() string {
	return slug(item.appName)
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func quoteWindowsPath(execPath string) string {
	return fmt.Sprintf(`"%s"`, strings.Trim(execPath, `"`))
}
