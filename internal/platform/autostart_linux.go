//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (autostartService) Enable(appName, execPath string) error {
	if appName == "" || execPath == "" {
		return fmt.Errorf("enable autostart: app name or exec path is empty")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	autostartDir := filepath.Join(configDir, "autostart")
	if err := os.MkdirAll(autostartDir, 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}

	execLine := execPath
	if strings.Contains(execLine, " ") && !strings.HasPrefix(execLine, `"`) {
		execLine = `"` + execLine + `"`
	}
	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`, appName, execLine)

	entryPath := filepath.Join(autostartDir, autostartSlug(appName)+".desktop")
	if err := os.WriteFile(entryPath, []byte(entry), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}
	return nil
}

func (autostartService) Disable(appName string) error {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	entryPath := filepath.Join(configDir, "autostart", autostartSlug(appName)+".desktop")
	if err := os.Remove(entryPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}
	return nil
}
