package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/CargoFit/internal/model"
)

const backupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string                        `json:"version"`
	CreatedAt string                        `json:"created_at"`
	Config    model.AppConfig               `json:"config"`
	Templates model.TemplateStore           `json:"templates"`
	Profiles  map[string]model.PackSettings `json:"profiles,omitempty"`
}

// ExportAllData writes config, templates and settings profiles to a single
// JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, templates model.TemplateStore, profiles map[string]model.PackSettings) error {
	backup := BackupData{
		Version:   backupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Templates: templates,
		Profiles:  profiles,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// CollectProfiles loads every profile in dir for inclusion in a backup.
func CollectProfiles(dir string) (map[string]model.PackSettings, error) {
	names, err := ListProfiles(dir)
	if err != nil {
		return nil, err
	}
	profiles := make(map[string]model.PackSettings, len(names))
	for _, name := range names {
		s, err := LoadProfile(dir, name)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		profiles[name] = s
	}
	return profiles, nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	// Ensure RecentProjects is never nil
	if backup.Config.RecentProjects == nil {
		backup.Config.RecentProjects = []string{}
	}
	if backup.Templates.Templates == nil {
		backup.Templates.Templates = []model.CargoTemplate{}
	}
	for name, s := range backup.Profiles {
		if err := s.Validate(); err != nil {
			return BackupData{}, fmt.Errorf("invalid profile %s in backup: %w", name, err)
		}
	}
	return backup, nil
}

// RestoreProfiles writes the backup's profiles into dir.
func RestoreProfiles(dir string, backup BackupData) error {
	for name, s := range backup.Profiles {
		if err := SaveProfile(dir, name, s); err != nil {
			return fmt.Errorf("failed to restore profile %s: %w", name, err)
		}
	}
	return nil
}
