// Package cli implements the cobra commands of the cargofit binary.
//
// Each command lives in its own file. This file defines the root command,
// the global flags and the error to exit code translation.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoFit/internal/model"
	"github.com/piwi3910/CargoFit/internal/project"
)

// Global flags bound on the root command.
var (
	jsonOutput bool
	verbose    bool
	configDir  string
)

// Set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates the root command with every subcommand registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cargofit",
		Short: "Single-container 3D cargo load planner",
		Long: `cargofit packs a list of boxed cargo into one container, trailer or
air ULD and reports where every unit goes and which units did not fit.

Cargo lists are read from JSON, CSV or XLSX. Results can be exported as a
PDF load plan, QR unit labels, an XLSX load sheet or a DXF wireframe.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", project.DefaultConfigDir(),
		"Directory holding config.json, templates, profiles and the layouts database")

	rootCmd.AddCommand(NewPackCommand())
	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewVerifyCommand())
	rootCmd.AddCommand(NewPresetsCommand())
	rootCmd.AddCommand(NewChargeableCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewLayoutsCommand())
	rootCmd.AddCommand(NewTemplatesCommand())
	rootCmd.AddCommand(NewProfilesCommand())
	rootCmd.AddCommand(NewBackupCommand())

	return rootCmd
}

// Execute runs rootCmd with SIGINT/SIGTERM cancelling the context and exits
// with the code carried by a CLIError, or 1 for other errors.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		printError(os.Stderr, cliErr.Message, cliErr.Err)
		os.Exit(int(cliErr.Code))
	}
	printError(os.Stderr, err.Error(), nil)
	os.Exit(int(ExitGeneralError))
}

// printError writes the failure as text or, with --json, as a JSON object.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{"message": message}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		data, _ := json.MarshalIndent(map[string]interface{}{"error": errObj}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}
	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// loadAppConfig reads config.json from the config dir, falling back to the
// defaults when it does not exist.
func loadAppConfig() (model.AppConfig, error) {
	path := project.ConfigPath(configDir)
	cfg, err := project.LoadAppConfig(path)
	if err != nil {
		return model.AppConfig{}, WrapCLIError(ExitInvalidInput, "failed to load "+path, err)
	}
	VerboseLog("Config: %s", path)
	return cfg, nil
}
