package model

import "testing"

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultSupportFraction != defaults.SupportFraction {
		t.Errorf("SupportFraction mismatch: config=%f settings=%f", cfg.DefaultSupportFraction, defaults.SupportFraction)
	}
	if cfg.DefaultCollisionTolerance != defaults.CollisionTolerance {
		t.Errorf("CollisionTolerance mismatch: config=%f settings=%f", cfg.DefaultCollisionTolerance, defaults.CollisionTolerance)
	}
	if cfg.DefaultRotation != defaults.Rotation {
		t.Errorf("Rotation mismatch: config=%s settings=%s", cfg.DefaultRotation, defaults.Rotation)
	}
	if cfg.DefaultEnforceWeight != defaults.EnforceWeightLimit {
		t.Error("EnforceWeightLimit mismatch")
	}
	if _, ok := GetPreset(cfg.DefaultPreset); !ok {
		t.Errorf("default preset %q is not in the catalog", cfg.DefaultPreset)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil")
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultSupportFraction = 0.7
	cfg.DefaultRotation = RotationUpright
	cfg.DefaultEnforceWeight = false

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.SupportFraction != 0.7 {
		t.Errorf("expected SupportFraction=0.7, got %f", s.SupportFraction)
	}
	if s.Rotation != RotationUpright {
		t.Errorf("expected Rotation=upright, got %s", s.Rotation)
	}
	if s.EnforceWeightLimit {
		t.Error("expected EnforceWeightLimit=false")
	}
}

func TestApplyToSettings_KeepsRotationWhenUnset(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultRotation = ""
	cfg.DefaultGridIterLimit = 0

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.Rotation != RotationAll {
		t.Errorf("expected rotation to stay %q, got %q", RotationAll, s.Rotation)
	}
	if s.GridIterLimit != DefaultSettings().GridIterLimit {
		t.Errorf("expected grid limit to stay default, got %d", s.GridIterLimit)
	}
}
