// Package storage persists user settings as a small YAML document under the
// OS config directory. It is a typed key-value service: a stored value that
// fails to parse as the requested type yields the caller-supplied default,
// never an error.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

// Store holds the loaded settings and writes every change back to disk.
type Store struct {
	path   string
	values map[string]interface{}
}

// Open loads the settings for appName. A missing file yields an empty store;
// an unreadable or malformed file yields an empty store plus the error so
// the caller can log it and continue with defaults.
func Open(appName string) (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return newStore(""), fmt.Errorf("resolve user config dir: %w", err)
	}
	return OpenPath(filepath.Join(configDir, appName, settingsFileName))
}

// OpenPath loads the settings file at an explicit path.
func OpenPath(path string) (*Store, error) {
	store := newStore(path)

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return store, fmt.Errorf("read settings file: %w", err)
	}

	if err := yaml.Unmarshal(rawData, &store.values); err != nil {
		store.values = map[string]interface{}{}
		return store, fmt.Errorf("parse settings yaml: %w", err)
	}
	if store.values == nil {
		store.values = map[string]interface{}{}
	}
	return store, nil
}

// Set stores a value and saves the file.
func (store *Store) Set(key string, value interface{}) error {
	store.values[key] = value
	return store.save()
}

// GetBool returns the value for key coerced to bool.
func (store *Store) GetBool(key string, fallback bool) bool {
	raw, ok := store.values[key]
	if !ok {
		return fallback
	}
	switch value := raw.(type) {
	case bool:
		return value
	case int:
		return value != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return fallback
}

// GetInt returns the value for key coerced to int.
func (store *Store) GetInt(key string, fallback int) int {
	raw, ok := store.values[key]
	if !ok {
		return fallback
	}
	switch value := raw.(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetFloat returns the value for key coerced to float64.
func (store *Store) GetFloat(key string, fallback float64) float64 {
	raw, ok := store.values[key]
	if !ok {
		return fallback
	}
	switch value := raw.(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case int64:
		return float64(value)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetString returns the value for key coerced to string.
func (store *Store) GetString(key string, fallback string) string {
	raw, ok := store.values[key]
	if !ok {
		return fallback
	}
	if value, ok := raw.(string); ok {
		return value
	}
	return fallback
}

func newStore(path string) *Store {
	return &Store{path: path, values: map[string]interface{}{}}
}

func (store *Store) save() error {
	if store.path == "" {
		return errors.New("settings path unresolved")
	}
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	serialized, err := yaml.Marshal(store.values)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(store.path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}
