//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (autostartService) Enable(appName, execPath string) error {
	if appName == "" || execPath == "" {
		return fmt.Errorf("enable autostart: app name or exec path is empty")
	}

	quoted := fmt.Sprintf(`"%s"`, strings.Trim(execPath, `"`))
	command := exec.Command("reg", "add", registryRunKey, "/v", appName, "/t", "REG_SZ", "/d", quoted, "/f")
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (autostartService) Disable(appName string) error {
	command := exec.Command("reg", "delete", registryRunKey, "/v", appName, "/f")
	output, err := command.CombinedOutput()
	if err != nil && !strings.Contains(string(output), "unable to find") {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
