package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoFit/internal/engine"
	"github.com/piwi3910/CargoFit/internal/model"
	"github.com/piwi3910/CargoFit/internal/project"
	"github.com/piwi3910/CargoFit/internal/store"
)

type packFlags struct {
	jobFlags
	exportFlags
	strict     bool
	placements bool
	save       string
}

// packOutput is the --json document of the pack command.
type packOutput struct {
	Result   model.PackResult         `json:"result"`
	Stats    model.PackStats          `json:"stats"`
	Estimate *model.ContainerEstimate `json:"estimate,omitempty"`
	Partial  bool                     `json:"partial"`
	LayoutID string                   `json:"layout_id,omitempty"`
}

// NewPackCommand creates the "pack" command.
func NewPackCommand() *cobra.Command {
	flags := &packFlags{}

	cmd := &cobra.Command{
		Use:   "pack [cargo-file]",
		Short: "Pack a cargo list into one container",
		Long: `Pack a cargo list into one container and report the placement of every unit.

Examples:
  cargofit pack cargo.json
  cargofit pack cargo.csv --preset 40ft-hc --pdf plan.pdf --labels labels.pdf
  cargofit pack cargo.xlsx --container 600x240x240 --max-weight 20000 --strict
  cargofit pack --template weekly --save "week 42"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, args, flags)
		},
	}

	flags.jobFlags.register(cmd.Flags())
	flags.exportFlags.register(cmd.Flags())
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Exit with code 3 when any unit is left unfitted")
	cmd.Flags().BoolVar(&flags.placements, "placements", false, "List every placed unit")
	cmd.Flags().StringVar(&flags.save, "save", "", "Save the result to the layouts database under this name")

	return cmd
}

func runPack(cmd *cobra.Command, args []string, flags *packFlags) error {
	j, err := flags.resolveJob(cmd, args)
	if err != nil {
		return err
	}

	result, packErr := engine.New(j.settings).Pack(cmd.Context(), j.container, j.specs)
	partial := packErr != nil && (errors.Is(packErr, context.Canceled) || errors.Is(packErr, context.DeadlineExceeded))
	if packErr != nil && !partial {
		return packError(packErr)
	}
	VerboseLog("Packed %d units in %s", len(result.Items), result.Elapsed)

	if err := flags.exportFlags.write(result); err != nil {
		return err
	}

	out := packOutput{Result: result, Stats: result.Stats(), Partial: partial}
	if out.Stats.UnfittedItems > 0 {
		est := model.EstimateContainers(j.specs, j.container, 15)
		out.Estimate = &est
	}

	if flags.save != "" {
		id, err := saveLayout(cmd.Context(), flags.save, result)
		if err != nil {
			return err
		}
		out.LayoutID = id
	}

	w := cmd.OutOrStdout()
	if IsJSONOutput() {
		if err := writeJSON(w, out); err != nil {
			return err
		}
	} else {
		printSummary(w, result)
		if flags.placements {
			fmt.Fprintln(w)
			printPlacements(w, result)
		}
		if out.Estimate != nil {
			fmt.Fprintf(w, "\nEstimate: at least %d container(s) of this type, %d allowing %.0f%% void space\n",
				out.Estimate.ContainersMin, out.Estimate.ContainersWithGap, out.Estimate.VoidPercent)
		}
		if out.LayoutID != "" {
			fmt.Fprintf(w, "\nSaved layout %s\n", out.LayoutID)
		}
	}

	if partial {
		return WrapCLIError(ExitGeneralError, "packing did not finish", packErr)
	}
	if flags.strict && out.Stats.UnfittedItems > 0 {
		return NewCLIError(ExitPartialPack, fmt.Sprintf("%d of %d units not loaded", out.Stats.UnfittedItems, out.Stats.TotalItems))
	}
	return nil
}

// packError maps engine input errors to the invalid input exit code.
func packError(err error) error {
	if errors.Is(err, model.ErrInvalidSpec) || errors.Is(err, model.ErrInvalidContainer) || errors.Is(err, model.ErrInvalidSettings) {
		return WrapCLIError(ExitInvalidInput, "invalid input", err)
	}
	return WrapCLIError(ExitGeneralError, "packing failed", err)
}

func openStore() (*store.Store, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}
	path := project.LayoutsDBPath(configDir, cfg)
	VerboseLog("Layouts database: %s", path)
	st, err := store.Open(path, store.WithVerbose(verbose))
	if err != nil {
		return nil, WrapCLIError(ExitGeneralError, "failed to open layouts database", err)
	}
	return st, nil
}

func saveLayout(ctx context.Context, name string, result model.PackResult) (string, error) {
	st, err := openStore()
	if err != nil {
		return "", err
	}
	defer st.Close()
	sum, err := st.Save(ctx, name, result)
	if err != nil {
		return "", WrapCLIError(ExitGeneralError, "failed to save layout", err)
	}
	return sum.ID, nil
}

// writeResultFile stores result as indented JSON.
func writeResultFile(path string, result model.PackResult) error {
	return writeJSONFile(path, result)
}
