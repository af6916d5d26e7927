package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SettingsFileName is the per-directory settings file consulted before
// interactive prompts.
const SettingsFileName = ".barkuni.json"

// Settings are persisted chat defaults. Every field is optional; flags and
// prompts override whatever is stored here.
type Settings struct {
	Character string `json:"character,omitempty"`
	Reference string `json:"reference,omitempty"`
	Manifest  string `json:"manifest,omitempty"`
	CloneURL  string `json:"clone_url,omitempty"`
}

// LoadSettings reads the settings file from dir. A missing file is not an
// error: it returns (nil, nil) and the caller uses its defaults.
func LoadSettings(dir string) (*Settings, error) {
	data, err := os.ReadFile(filepath.Join(dir, SettingsFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

// SaveSettings writes the settings file to dir.
func SaveSettings(dir string, s *Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	path := filepath.Join(dir, SettingsFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
