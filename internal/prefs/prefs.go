// Package prefs persists the user's last choices between runs.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/tonimelisma/phototransfer/internal/locale"
)

// Preferences is a flat record; every field has its own default.
type Preferences struct {
	SourceFolder string      `yaml:"source_folder"`
	DestFolder   string      `yaml:"dest_folder"`
	SortByDate   bool        `yaml:"sort_by_date"`
	CopyMode     bool        `yaml:"copy_mode"`
	Language     locale.Code `yaml:"language"`
}

func Defaults() Preferences {
	return Preferences{
		SortByDate: true,
		CopyMode:   true,
		Language:   locale.Default,
	}
}

// DefaultPath returns the per-user preferences location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "phototransfer", "preferences.yaml"), nil
}

// Load reads path and never fails: a missing or unreadable file yields the
// defaults, and each missing or malformed field falls back on its own.
func Load(path string, logger zerolog.Logger) Preferences {
	p := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", path).Msg("failed to read preferences, using defaults")
		}
		return p
	}

	// Decoding into a generic map lets one bad field leave the others intact.
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to parse preferences, using defaults")
		return p
	}

	if v, ok := raw["source_folder"].(string); ok {
		p.SourceFolder = v
	}
	if v, ok := raw["dest_folder"].(string); ok {
		p.DestFolder = v
	}
	if v, ok := raw["sort_by_date"].(bool); ok {
		p.SortByDate = v
	}
	if v, ok := raw["copy_mode"].(bool); ok {
		p.CopyMode = v
	}
	if v, ok := raw["language"].(string); ok {
		if code, ok := locale.Parse(v); ok {
			p.Language = code
		} else {
			logger.Debug().Str("language", v).Msg("unsupported language in preferences")
		}
	}

	return p
}

// Save writes p to path through a temporary file so a crash never leaves a
// truncated record behind.
func Save(path string, p Preferences) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".preferences-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}
