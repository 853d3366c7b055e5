package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/piwi3910/CargoFit/internal/importer"
	"github.com/piwi3910/CargoFit/internal/model"
	"github.com/piwi3910/CargoFit/internal/project"
)

// policyFlags override individual PackSettings fields.
type policyFlags struct {
	support   float64
	rotation  string
	timeout   time.Duration
	gridLimit int
	noWeight  bool
}

func (f *policyFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.support, "support", 0, "Required supported share of a unit's footprint (0..1)")
	fs.StringVar(&f.rotation, "rotation", "", "Rotation mode: upright or all")
	fs.DurationVar(&f.timeout, "timeout", 0, "Stop packing after this long and report the partial result")
	fs.IntVar(&f.gridLimit, "grid-limit", 0, "Grid positions examined per unit and orientation")
	fs.BoolVar(&f.noWeight, "no-weight-limit", false, "Report weight but do not reject overweight units")
}

// apply copies the flags the user set onto s.
func (f *policyFlags) apply(fs *pflag.FlagSet, s *model.PackSettings) {
	if fs.Changed("support") {
		s.SupportFraction = f.support
	}
	if fs.Changed("rotation") {
		s.Rotation = model.RotationMode(f.rotation)
	}
	if fs.Changed("timeout") {
		s.Timeout = f.timeout
	}
	if fs.Changed("grid-limit") {
		s.GridIterLimit = f.gridLimit
	}
	if f.noWeight {
		s.EnforceWeightLimit = false
	}
}

// jobFlags are the flags shared by commands that run the engine.
type jobFlags struct {
	policyFlags
	template     string
	preset       string
	container    string
	maxWeight    float64
	profile      string
	settingsFile string
}

func (f *jobFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.template, "template", "", "Use a saved cargo template instead of a cargo file")
	fs.StringVar(&f.preset, "preset", "", "Container preset (see 'cargofit presets')")
	fs.StringVar(&f.container, "container", "", "Custom container inner size LxWxH in cm")
	fs.Float64Var(&f.maxWeight, "max-weight", 0, "Max payload in kg for --container (0 = unlimited)")
	fs.StringVar(&f.profile, "profile", "", "Named settings profile")
	fs.StringVar(&f.settingsFile, "settings", "", "YAML settings file")
	f.policyFlags.register(fs)
}

// job is a fully resolved engine input.
type job struct {
	container model.Container
	settings  model.PackSettings
	specs     []model.CargoSpec
}

// loadCargo reads a cargo list. JSON files may also carry a container and
// settings; CSV and XLSX files only carry items.
func loadCargo(path string) (importer.CargoFile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		f, err := importer.LoadCargoFile(path)
		if err != nil {
			return importer.CargoFile{}, WrapCLIError(ExitInvalidInput, "failed to read cargo file", err)
		}
		return f, nil
	}

	res := importer.ImportFile(path)
	for _, w := range res.Warnings {
		VerboseLog("import: %s", w)
	}
	if len(res.Errors) > 0 {
		return importer.CargoFile{}, WrapCLIError(ExitInvalidInput,
			fmt.Sprintf("failed to import %s", path), errors.New(strings.Join(res.Errors, "; ")))
	}
	return importer.CargoFile{Items: res.Specs}, nil
}

// loadTemplate returns the items of a saved template as a cargo file.
func loadTemplate(name string) (importer.CargoFile, error) {
	store, err := project.LoadTemplates(project.TemplatesPath(configDir))
	if err != nil {
		return importer.CargoFile{}, WrapCLIError(ExitGeneralError, "failed to load templates", err)
	}
	t := store.Lookup(name)
	if t == nil {
		return importer.CargoFile{}, NewCLIError(ExitInvalidInput, fmt.Sprintf("no template named %q", name))
	}
	return importer.CargoFile{Preset: t.Preset, Items: t.ToSpecs()}, nil
}

// parseDims parses "LxWxH" in centimeters.
func parseDims(s string) (float64, float64, float64, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("container must be LxWxH, got %q", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("container dimension %q: %w", p, err)
		}
		v[i] = f
	}
	return v[0], v[1], v[2], nil
}

// resolveJob builds the engine input from the positional cargo file or
// --template, then applies the container and settings layers in order:
// defaults and config.json (or a profile), cargo file, flags.
func (f *jobFlags) resolveJob(cmd *cobra.Command, args []string) (job, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return job{}, err
	}

	var cargo importer.CargoFile
	switch {
	case f.template != "" && len(args) > 0:
		return job{}, NewCLIError(ExitInvalidInput, "give either a cargo file or --template, not both")
	case f.template != "":
		cargo, err = loadTemplate(f.template)
	case len(args) == 1:
		cargo, err = loadCargo(args[0])
	default:
		return job{}, NewCLIError(ExitInvalidInput, "a cargo file or --template is required")
	}
	if err != nil {
		return job{}, err
	}

	c, err := f.resolveContainer(cargo, cfg)
	if err != nil {
		return job{}, err
	}
	s, err := f.resolveSettings(cmd, cargo, cfg)
	if err != nil {
		return job{}, err
	}

	VerboseLog("Container: %s %s, max %g kg", c.Label, c.Dimensions(), c.MaxWeight)
	VerboseLog("Cargo lines: %d", len(cargo.Items))
	return job{container: c, settings: s, specs: cargo.Items}, nil
}

func (f *jobFlags) resolveContainer(cargo importer.CargoFile, cfg model.AppConfig) (model.Container, error) {
	switch {
	case f.container != "":
		l, w, h, err := parseDims(f.container)
		if err != nil {
			return model.Container{}, WrapCLIError(ExitInvalidInput, "invalid --container", err)
		}
		c := model.NewContainer(l, w, h, f.maxWeight)
		c.Label = "Custom"
		return c, nil
	case f.preset != "":
		cargo.Preset, cargo.Container = f.preset, nil
	case cargo.Container == nil && cargo.Preset == "":
		cargo.Preset = cfg.DefaultPreset
	}

	c, err := cargo.ResolveContainer()
	if err != nil {
		return model.Container{}, WrapCLIError(ExitInvalidInput, "no usable container", err)
	}
	return c, nil
}

func (f *jobFlags) resolveSettings(cmd *cobra.Command, cargo importer.CargoFile, cfg model.AppConfig) (model.PackSettings, error) {
	s := model.DefaultSettings()
	cfg.ApplyToSettings(&s)

	var err error
	switch {
	case f.settingsFile != "":
		s, err = project.LoadSettingsFile(f.settingsFile)
	case f.profile != "":
		s, err = project.LoadProfile(project.ProfilesDir(configDir), f.profile)
	}
	if err != nil {
		return model.PackSettings{}, WrapCLIError(ExitInvalidInput, "failed to load settings", err)
	}

	if s, err = cargo.ResolveSettings(s); err != nil {
		return model.PackSettings{}, WrapCLIError(ExitInvalidInput, "invalid settings in cargo file", err)
	}

	f.policyFlags.apply(cmd.Flags(), &s)

	if err := s.Validate(); err != nil {
		return model.PackSettings{}, WrapCLIError(ExitInvalidInput, "invalid settings", err)
	}
	return s, nil
}
