package model

// AppConfig holds user preferences and the default packing policy.
type AppConfig struct {
	// Default policy applied to new runs
	DefaultSupportFraction    float64      `json:"default_support_fraction"`
	DefaultCollisionTolerance float64      `json:"default_collision_tolerance"`
	DefaultRotation           RotationMode `json:"default_rotation"`
	DefaultAdjacencyLimit     int          `json:"default_adjacency_limit"`
	DefaultGridIterLimit      int          `json:"default_grid_iter_limit"`
	DefaultEnforceWeight      bool         `json:"default_enforce_weight"`
	DefaultPreset             string       `json:"default_preset"` // container preset name

	// Application preferences
	Workers        int      `json:"workers"`    // parallel runs for compare and the HTTP API, 0 = NumCPU
	LayoutsDB      string   `json:"layouts_db"` // SQLite path, empty = ~/.cargofit/layouts.db
	RecentProjects []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with the values from
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultSupportFraction:    defaults.SupportFraction,
		DefaultCollisionTolerance: defaults.CollisionTolerance,
		DefaultRotation:           defaults.Rotation,
		DefaultAdjacencyLimit:     defaults.AdjacencyLimit,
		DefaultGridIterLimit:      defaults.GridIterLimit,
		DefaultEnforceWeight:      defaults.EnforceWeightLimit,
		DefaultPreset:             "20ft",
		Workers:                   0,
		RecentProjects:            []string{},
	}
}

// ApplyToSettings copies the configured defaults into s.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	s.SupportFraction = c.DefaultSupportFraction
	s.CollisionTolerance = c.DefaultCollisionTolerance
	if c.DefaultRotation != "" {
		s.Rotation = c.DefaultRotation
	}
	s.AdjacencyLimit = c.DefaultAdjacencyLimit
	if c.DefaultGridIterLimit > 0 {
		s.GridIterLimit = c.DefaultGridIterLimit
	}
	s.EnforceWeightLimit = c.DefaultEnforceWeight
}
