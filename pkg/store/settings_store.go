package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ebenmoss/deskminder/pkg/models"
)

// SettingsStore handles preference persistence as a single JSON document at
// a fixed path, rewritten wholesale on every change.
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a settings store backed by the document at path.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Load reads the settings document. A missing or unreadable document yields
// the defaults.
func (ss *SettingsStore) Load() *models.Settings {
	settings := models.DefaultSettings()

	data, err := os.ReadFile(ss.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to read settings %s, using defaults: %v", ss.path, err)
		}
		return settings
	}

	if err := json.Unmarshal(data, settings); err != nil {
		log.Printf("Malformed settings %s, using defaults: %v", ss.path, err)
		return models.DefaultSettings()
	}

	if settings.SelectedScreens == "" {
		settings.SelectedScreens = models.ScreensAll
	}
	return settings
}

// Save writes the settings document atomically (temp file plus rename).
func (ss *SettingsStore) Save(settings *models.Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(ss.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close settings file: %w", err)
	}
	if err := os.Rename(tmpName, ss.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace settings document: %w", err)
	}
	return nil
}
