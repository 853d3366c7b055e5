package model

import (
	"testing"
)

func TestNewCargoTemplate(t *testing.T) {
	specs := []CargoSpec{
		NewCargoSpec("Pallet", 120, 80, 140, 400, 10),
		NewCargoSpec("Drum", 60, 60, 90, 180, 4),
	}

	tmpl := NewCargoTemplate("Weekly", "Weekly export load", "40ft", specs)

	if tmpl.Name != "Weekly" {
		t.Errorf("expected name 'Weekly', got %q", tmpl.Name)
	}
	if tmpl.Preset != "40ft" {
		t.Errorf("expected preset '40ft', got %q", tmpl.Preset)
	}
	if tmpl.ID == "" {
		t.Error("expected non-empty ID")
	}
	if tmpl.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if len(tmpl.Specs) != 2 {
		t.Errorf("expected 2 specs, got %d", len(tmpl.Specs))
	}

	// The template holds a copy.
	specs[0].Name = "Changed"
	if tmpl.Specs[0].Name != "Pallet" {
		t.Errorf("template should not alias the input slice, got %q", tmpl.Specs[0].Name)
	}
}

func TestNewCargoTemplate_NilSpecs(t *testing.T) {
	tmpl := NewCargoTemplate("Empty", "", "", nil)
	if tmpl.Specs == nil {
		t.Error("Specs should not be nil")
	}
}

func TestCargoTemplate_ToSpecs(t *testing.T) {
	drum := NewCargoSpec("Drum", 60, 60, 90, 180, 4)
	drum.NonRotatable = true
	drum.NonStackable = true
	tmpl := NewCargoTemplate("T", "", "", []CargoSpec{drum})

	specs := tmpl.ToSpecs()
	if len(specs) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(specs))
	}
	got := specs[0]
	if got.ID == drum.ID {
		t.Error("expected a fresh id")
	}
	if got.Name != "Drum" || got.Quantity != 4 || got.Weight != 180 {
		t.Errorf("unexpected spec copy: %+v", got)
	}
	if !got.NonRotatable || !got.NonStackable {
		t.Error("flags should be carried over")
	}
}

func TestTemplateStore_AddFindRemove(t *testing.T) {
	store := NewTemplateStore()
	a := NewCargoTemplate("A", "", "", nil)
	b := NewCargoTemplate("B", "", "", nil)
	store.Add(a)
	store.Add(b)

	if got := store.FindByID(b.ID); got == nil || got.Name != "B" {
		t.Errorf("FindByID failed: %+v", got)
	}
	if got := store.FindByName("A"); got == nil || got.ID != a.ID {
		t.Errorf("FindByName failed: %+v", got)
	}
	if store.FindByName("C") != nil {
		t.Error("expected nil for unknown name")
	}

	if got := store.Lookup("B"); got == nil || got.ID != b.ID {
		t.Errorf("Lookup by name failed: %+v", got)
	}
	if got := store.Lookup(a.ID); got == nil || got.Name != "A" {
		t.Errorf("Lookup by id failed: %+v", got)
	}
	if store.Lookup("C") != nil {
		t.Error("expected nil for unknown key")
	}

	if !store.Remove(a.ID) {
		t.Error("expected Remove to report success")
	}
	if store.Remove(a.ID) {
		t.Error("expected second Remove to report failure")
	}
	if len(store.Templates) != 1 {
		t.Errorf("expected 1 template left, got %d", len(store.Templates))
	}
}
