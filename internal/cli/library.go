package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/CargoFit/internal/model"
	"github.com/piwi3910/CargoFit/internal/project"
)

// NewTemplatesCommand creates the "templates" command group.
func NewTemplatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage reusable cargo lists",
	}
	cmd.AddCommand(newTemplatesListCommand())
	cmd.AddCommand(newTemplatesSaveCommand())
	cmd.AddCommand(newTemplatesDeleteCommand())
	return cmd
}

func loadTemplateStore() (model.TemplateStore, error) {
	store, err := project.LoadTemplates(project.TemplatesPath(configDir))
	if err != nil {
		return model.TemplateStore{}, WrapCLIError(ExitGeneralError, "failed to load templates", err)
	}
	return store, nil
}

func newTemplatesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cargo templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadTemplateStore()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if IsJSONOutput() {
				return writeJSON(w, store.Templates)
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tLINES\tPRESET\tDESCRIPTION")
			for _, t := range store.Templates {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", t.ID, t.Name, len(t.Specs), t.Preset, t.Description)
			}
			return tw.Flush()
		},
	}
}

func newTemplatesSaveCommand() *cobra.Command {
	var description, preset string
	cmd := &cobra.Command{
		Use:   "save <name> <cargo-file>",
		Short: "Save a cargo list as a template, replacing one with the same name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cargo, err := loadCargo(args[1])
			if err != nil {
				return err
			}
			if err := model.ValidateSpecs(cargo.Items); err != nil {
				return WrapCLIError(ExitInvalidInput, "invalid cargo list", err)
			}
			if preset == "" {
				preset = cargo.Preset
			}
			if preset != "" {
				if _, ok := model.GetPreset(preset); !ok {
					return NewCLIError(ExitInvalidInput, fmt.Sprintf("unknown container preset %q", preset))
				}
			}

			t, err := project.PutTemplate(project.TemplatesPath(configDir),
				model.NewCargoTemplate(args[0], description, preset, cargo.Items))
			if err != nil {
				return WrapCLIError(ExitGeneralError, "failed to save templates", err)
			}
			if !IsJSONOutput() {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved template %s (%d lines)\n", t.Name, len(t.Specs))
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), t)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Template description")
	cmd.Flags().StringVar(&preset, "preset", "", "Default container preset for the template")
	return cmd
}

func newTemplatesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name|id>",
		Short: "Delete a cargo template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := project.DeleteTemplate(project.TemplatesPath(configDir), args[0])
			if errors.Is(err, project.ErrTemplateNotFound) {
				return NewCLIError(ExitInvalidInput, fmt.Sprintf("no template named %q", args[0]))
			}
			if err != nil {
				return WrapCLIError(ExitGeneralError, "failed to save templates", err)
			}
			return nil
		},
	}
}

// NewProfilesCommand creates the "profiles" command group.
func NewProfilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage named settings profiles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List settings profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := project.ListProfiles(project.ProfilesDir(configDir))
			if err != nil {
				return WrapCLIError(ExitGeneralError, "failed to list profiles", err)
			}
			if IsJSONOutput() {
				return writeJSON(cmd.OutOrStdout(), names)
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print a settings profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := project.LoadProfile(project.ProfilesDir(configDir), args[0])
			if err != nil {
				return WrapCLIError(ExitInvalidInput, "failed to load profile", err)
			}
			if IsJSONOutput() {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			data, err := yaml.Marshal(&s)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})
	cmd.AddCommand(newProfilesSaveCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a settings profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := project.DeleteProfile(project.ProfilesDir(configDir), args[0]); err != nil {
				return WrapCLIError(ExitInvalidInput, "failed to delete profile", err)
			}
			return nil
		},
	})
	return cmd
}

func newProfilesSaveCommand() *cobra.Command {
	flags := &policyFlags{}
	var from string
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a settings profile from the defaults, a YAML file and flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := model.DefaultSettings()
			if from != "" {
				var err error
				if s, err = project.LoadSettingsFile(from); err != nil {
					return WrapCLIError(ExitInvalidInput, "failed to load settings", err)
				}
			}
			flags.apply(cmd.Flags(), &s)
			if err := project.SaveProfile(project.ProfilesDir(configDir), args[0], s); err != nil {
				return WrapCLIError(ExitInvalidInput, "failed to save profile", err)
			}
			VerboseLog("Saved profile %s", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Start from this YAML settings file")
	flags.register(cmd.Flags())
	return cmd
}

// NewBackupCommand creates the "backup" command group.
func NewBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore config, templates and profiles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write config, templates and profiles to one JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}
			store, err := loadTemplateStore()
			if err != nil {
				return err
			}
			profiles, err := project.CollectProfiles(project.ProfilesDir(configDir))
			if err != nil {
				return WrapCLIError(ExitGeneralError, "failed to read profiles", err)
			}
			if err := project.ExportAllData(args[0], cfg, store, profiles); err != nil {
				return WrapCLIError(ExitGeneralError, "backup failed", err)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Restore a backup, replacing config and templates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return WrapCLIError(ExitInvalidInput, "restore failed", err)
			}
			if err := project.SaveAppConfig(project.ConfigPath(configDir), backup.Config); err != nil {
				return WrapCLIError(ExitGeneralError, "failed to write config", err)
			}
			if err := project.SaveTemplates(project.TemplatesPath(configDir), backup.Templates); err != nil {
				return WrapCLIError(ExitGeneralError, "failed to write templates", err)
			}
			if err := project.RestoreProfiles(project.ProfilesDir(configDir), backup); err != nil {
				return WrapCLIError(ExitGeneralError, "failed to write profiles", err)
			}
			if !IsJSONOutput() {
				fmt.Fprintf(cmd.OutOrStdout(), "Restored backup from %s (%d templates, %d profiles)\n",
					backup.CreatedAt, len(backup.Templates.Templates), len(backup.Profiles))
			}
			return nil
		},
	})
	return cmd
}
