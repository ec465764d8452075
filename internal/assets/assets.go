// Package assets locates the sprite and icon files shipped next to the binary.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sprite file names, one per pose.
const (
	SpriteSit          = "dog_sit_tr.gif"
	SpriteLyingDown    = "dog_laydown_tr.gif"
	SpriteWalkingLeft  = "dog_walkingleft_tr.gif"
	SpriteWalkingRight = "dog_walkingright_tr.gif"
	TrayIcon           = "tray.ico"
)

const envAssetsDir = "DOEI_ASSETS"

// Resolve returns the absolute path of a named asset. It checks the
// DOEI_ASSETS directory, then assets/ next to the executable, then
// assets/ under the working directory. A missing asset is an error;
// callers treat missing sprites as fatal at startup.
func Resolve(name string) (string, error) {
	var searched []string

	if dir := os.Getenv(envAssetsDir); dir != "" {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate, nil
		}
		searched = append(searched, candidate)
	}

	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), "assets", name)
		if fileExists(candidate) {
			return candidate, nil
		}
		searched = append(searched, candidate)
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, "assets", name)
		if fileExists(candidate) {
			return candidate, nil
		}
		searched = append(searched, candidate)
	}

	return "", fmt.Errorf("asset %q not found (searched %v)", name, searched)
}

// ReadFile resolves and loads an asset in one step.
func ReadFile(name string) ([]byte, error) {
	path, err := Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset %q: %w", name, err)
	}
	return data, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
