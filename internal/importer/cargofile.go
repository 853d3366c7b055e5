package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/jsonc"

	"github.com/piwi3910/CargoFit/internal/model"
)

// ErrNoContainer is returned when a cargo file names neither a container nor
// a known preset.
var ErrNoContainer = errors.New("no container or preset given")

// CargoFile is the JSON document describing one packing job. It is used both
// as an on-disk cargo list and as the HTTP request body. Comments and
// trailing commas are accepted.
type CargoFile struct {
	Preset    string            `json:"preset,omitempty"`
	Container *model.Container  `json:"container,omitempty"`
	Settings  json.RawMessage   `json:"settings,omitempty"`
	Items     []model.CargoSpec `json:"items"`
}

// itemQuantity records whether an item spelled out its quantity.
type itemQuantity struct {
	Quantity *int `json:"quantity"`
}

// ParseCargoFile decodes a cargo file. A bare JSON array is read as the item
// list. Items without an id get a generated one and an omitted quantity
// counts as one; an explicit quantity is kept as given so that zero or
// negative values fail validation.
func ParseCargoFile(data []byte) (CargoFile, error) {
	clean := bytes.TrimSpace(jsonc.ToJSON(data))

	var f CargoFile
	var quantities []itemQuantity
	if len(clean) > 0 && clean[0] == '[' {
		if err := json.Unmarshal(clean, &f.Items); err != nil {
			return CargoFile{}, fmt.Errorf("failed to parse cargo list: %w", err)
		}
		if err := json.Unmarshal(clean, &quantities); err != nil {
			return CargoFile{}, fmt.Errorf("failed to parse cargo list: %w", err)
		}
	} else {
		if err := json.Unmarshal(clean, &f); err != nil {
			return CargoFile{}, fmt.Errorf("failed to parse cargo file: %w", err)
		}
		var doc struct {
			Items []itemQuantity `json:"items"`
		}
		if err := json.Unmarshal(clean, &doc); err != nil {
			return CargoFile{}, fmt.Errorf("failed to parse cargo file: %w", err)
		}
		quantities = doc.Items
	}

	for i := range f.Items {
		if f.Items[i].ID == "" {
			f.Items[i].ID = uuid.New().String()[:8]
		}
		if i < len(quantities) && quantities[i].Quantity == nil {
			f.Items[i].Quantity = 1
		}
	}
	return f, nil
}

// LoadCargoFile reads and parses a cargo file from disk.
func LoadCargoFile(path string) (CargoFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CargoFile{}, fmt.Errorf("failed to read cargo file: %w", err)
	}
	return ParseCargoFile(data)
}

// ResolveContainer returns the explicit container if present, otherwise the
// named preset.
func (f CargoFile) ResolveContainer() (model.Container, error) {
	if f.Container != nil {
		return *f.Container, nil
	}
	if f.Preset == "" {
		return model.Container{}, ErrNoContainer
	}
	p, ok := model.GetPreset(f.Preset)
	if !ok {
		return model.Container{}, fmt.Errorf("unknown container preset %q (known: %s): %w",
			f.Preset, strings.Join(model.GetPresetNames(), ", "), ErrNoContainer)
	}
	return p.Container, nil
}

// ResolveSettings applies the file's settings on top of base, so a file only
// needs to name the fields it changes.
func (f CargoFile) ResolveSettings(base model.PackSettings) (model.PackSettings, error) {
	if len(f.Settings) == 0 {
		return base, nil
	}
	s := base
	if err := json.Unmarshal(f.Settings, &s); err != nil {
		return base, fmt.Errorf("failed to parse settings: %w", err)
	}
	return s, nil
}

// ImportJSON imports the item list of a cargo file. Container and settings
// in the file are ignored here; use LoadCargoFile to read them.
func ImportJSON(path string) ImportResult {
	result := ImportResult{}

	f, err := LoadCargoFile(path)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	if len(f.Items) == 0 {
		result.Errors = append(result.Errors, "No items found")
		return result
	}

	for i, s := range f.Items {
		if err := s.Validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Item %d: %v", i+1, err))
			continue
		}
		result.Specs = append(result.Specs, s)
	}
	if err := model.ValidateSpecs(result.Specs); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
	return result
}
