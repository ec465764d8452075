package platform

import (
	"fmt"
	"os"
	"strings"
)

// Autostart registers or removes the pet as a login item.
type Autostart interface {
	Enable(appName, execPath string) error
	Disable(appName string) error
}

// NewAutostart returns the platform autostart implementation.
func NewAutostart() Autostart {
	return autostartService{}
}

type autostartService struct{}

// ApplyAutostart enables or disables autostart for the current executable.
func ApplyAutostart(appName string, enabled bool) error {
	service := NewAutostart()
	if !enabled {
		return service.Disable(appName)
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	return service.Enable(appName, execPath)
}

func autostartSlug(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	if name == "" {
		name = "doei"
	}
	return strings.ReplaceAll(name, " ", "-")
}
