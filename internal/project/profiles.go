package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/CargoFit/internal/model"
)

const profileExt = ".yaml"

// ProfilesDir returns the directory holding named settings profiles inside
// the config dir.
func ProfilesDir(dir string) string {
	return filepath.Join(dir, "profiles")
}

// LoadSettingsFile reads a YAML settings profile. Keys absent from the file
// keep their DefaultSettings values, and the merged settings are validated.
func LoadSettingsFile(path string) (model.PackSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PackSettings{}, err
	}
	return ParseSettings(data)
}

// ParseSettings decodes YAML settings on top of DefaultSettings.
func ParseSettings(data []byte) (model.PackSettings, error) {
	s := model.DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return model.PackSettings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return model.PackSettings{}, err
	}
	return s, nil
}

// SaveSettingsFile writes s as a YAML profile, creating parent directories.
func SaveSettingsFile(path string, s model.PackSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ProfilePath returns the file for the named profile inside dir.
func ProfilePath(dir, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid profile name %q", name)
	}
	return filepath.Join(dir, name+profileExt), nil
}

// ListProfiles returns the names of the profiles stored in dir, sorted.
// A missing directory yields an empty list.
func ListProfiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != profileExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), profileExt))
	}
	sort.Strings(names)
	return names, nil
}

// LoadProfile loads the named profile from dir.
func LoadProfile(dir, name string) (model.PackSettings, error) {
	path, err := ProfilePath(dir, name)
	if err != nil {
		return model.PackSettings{}, err
	}
	return LoadSettingsFile(path)
}

// SaveProfile stores s under name in dir.
func SaveProfile(dir, name string, s model.PackSettings) error {
	path, err := ProfilePath(dir, name)
	if err != nil {
		return err
	}
	return SaveSettingsFile(path, s)
}

// DeleteProfile removes the named profile. Removing a missing profile is not
// an error.
func DeleteProfile(dir, name string) error {
	path, err := ProfilePath(dir, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
