package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/piwi3910/CargoFit/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.cargofit/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cargofit")
}

// ConfigPath returns the application config file inside dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, "config.json")
}

// LayoutsDBPath returns the SQLite path for cfg: cfg.LayoutsDB when set,
// otherwise layouts.db inside dir.
func LayoutsDBPath(dir string, cfg model.AppConfig) string {
	if cfg.LayoutsDB != "" {
		return cfg.LayoutsDB
	}
	return filepath.Join(dir, "layouts.db")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path. Comments and
// trailing commas are tolerated. Fields missing from the file keep their
// default values. If the file does not exist, it returns DefaultAppConfig
// with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return model.AppConfig{}, err
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	// Ensure RecentProjects is never nil
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	return config, nil
}
