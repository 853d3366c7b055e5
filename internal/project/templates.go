package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/piwi3910/CargoFit/internal/model"
)

// ErrTemplateNotFound is returned when no template matches a name or id.
var ErrTemplateNotFound = errors.New("template not found")

// TemplatesPath returns the cargo template library inside dir.
func TemplatesPath(dir string) string {
	return filepath.Join(dir, "templates.json")
}

// checkTemplate rejects a template that could not be packed as saved.
func checkTemplate(t model.CargoTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("template %s has no name", t.ID)
	}
	if t.Preset != "" {
		if _, ok := model.GetPreset(t.Preset); !ok {
			return fmt.Errorf("template %q: unknown container preset %q", t.Name, t.Preset)
		}
	}
	if err := model.ValidateSpecs(t.Specs); err != nil {
		return fmt.Errorf("template %q: %w", t.Name, err)
	}
	return nil
}

// LoadTemplates reads the template library at path. A missing file is an
// empty library. Hand-edited files may carry comments.
func LoadTemplates(path string) (model.TemplateStore, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.NewTemplateStore(), nil
	}
	if err != nil {
		return model.TemplateStore{}, fmt.Errorf("failed to read templates: %w", err)
	}

	var store model.TemplateStore
	if err := json.Unmarshal(jsonc.ToJSON(data), &store); err != nil {
		return model.TemplateStore{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if store.Templates == nil {
		store.Templates = []model.CargoTemplate{}
	}
	for _, t := range store.Templates {
		if err := checkTemplate(t); err != nil {
			return model.TemplateStore{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	return store, nil
}

// SaveTemplates validates every template and replaces the file at path
// through a temporary file in the same directory.
func SaveTemplates(path string, store model.TemplateStore) error {
	for _, t := range store.Templates {
		if err := checkTemplate(t); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".templates-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// PutTemplate adds t to the library at path. A template with the same name is
// replaced and t takes over its id and creation time.
func PutTemplate(path string, t model.CargoTemplate) (model.CargoTemplate, error) {
	store, err := LoadTemplates(path)
	if err != nil {
		return model.CargoTemplate{}, err
	}
	if old := store.FindByName(t.Name); old != nil {
		t.ID, t.CreatedAt = old.ID, old.CreatedAt
		*old = t
	} else {
		store.Add(t)
	}
	if err := SaveTemplates(path, store); err != nil {
		return model.CargoTemplate{}, err
	}
	return t, nil
}

// DeleteTemplate removes the template whose name or id is key.
func DeleteTemplate(path, key string) error {
	store, err := LoadTemplates(path)
	if err != nil {
		return err
	}
	t := store.Lookup(key)
	if t == nil {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, key)
	}
	store.Remove(t.ID)
	return SaveTemplates(path, store)
}
