package model

import (
	"time"

	"github.com/google/uuid"
)

// CargoTemplate is a reusable, named cargo list with an optional default
// container preset. It never carries packing results.
type CargoTemplate struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Preset      string      `json:"preset,omitempty"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
	Specs       []CargoSpec `json:"specs"`
}

// NewCargoTemplate creates a template holding a copy of specs.
func NewCargoTemplate(name, description, preset string, specs []CargoSpec) CargoTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return CargoTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		Preset:      preset,
		CreatedAt:   now,
		UpdatedAt:   now,
		Specs:       copySpecs(specs),
	}
}

// ToSpecs returns the template's specs with fresh ids so the result is
// independent of the template.
func (t CargoTemplate) ToSpecs() []CargoSpec {
	specs := make([]CargoSpec, len(t.Specs))
	for i, s := range t.Specs {
		specs[i] = NewCargoSpec(s.Name, s.Length, s.Width, s.Height, s.Weight, s.Quantity)
		specs[i].NonStackable = s.NonStackable
		specs[i].NonRotatable = s.NonRotatable
	}
	return specs
}

// TemplateStore holds a collection of cargo templates.
type TemplateStore struct {
	Templates []CargoTemplate `json:"templates"`
}

func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []CargoTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t CargoTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *CargoTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *CargoTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Lookup returns the template whose name matches key, falling back to an id
// match, or nil.
func (ts *TemplateStore) Lookup(key string) *CargoTemplate {
	if t := ts.FindByName(key); t != nil {
		return t
	}
	return ts.FindByID(key)
}

func copySpecs(specs []CargoSpec) []CargoSpec {
	if specs == nil {
		return []CargoSpec{}
	}
	cp := make([]CargoSpec, len(specs))
	copy(cp, specs)
	return cp
}
