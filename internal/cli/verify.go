package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoFit/internal/engine"
	"github.com/piwi3910/CargoFit/internal/model"
)

type verifyOutput struct {
	Valid      bool               `json:"valid"`
	Violations []engine.Violation `json:"violations"`
}

// NewVerifyCommand creates the "verify" command.
func NewVerifyCommand() *cobra.Command {
	var cargoPath string

	cmd := &cobra.Command{
		Use:   "verify <result.json>",
		Short: "Re-check a packing result against the layout rules",
		Long: `Re-check every placed unit of a result written by 'cargofit pack --out'
for bounds, overlap, support, stacking and weight.

With --cargo the result is also checked against the cargo list it was
packed from: unit counts and non-rotatable orientations.

Examples:
  cargofit verify result.json
  cargofit verify result.json --cargo cargo.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args[0], cargoPath)
		},
	}
	cmd.Flags().StringVar(&cargoPath, "cargo", "", "Cargo list the result was packed from")
	return cmd
}

func runVerify(cmd *cobra.Command, path, cargoPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapCLIError(ExitInvalidInput, "failed to read result", err)
	}
	var result model.PackResult
	if err := json.Unmarshal(data, &result); err != nil {
		return WrapCLIError(ExitInvalidInput, "failed to parse result", err)
	}

	var violations []engine.Violation
	if cargoPath != "" {
		cargo, err := loadCargo(cargoPath)
		if err != nil {
			return err
		}
		violations = engine.VerifyAgainstSpecs(result, cargo.Items)
	} else {
		violations = engine.VerifyLayout(result)
	}
	VerboseLog("Checked %d units", len(result.Items))

	w := cmd.OutOrStdout()
	if IsJSONOutput() {
		out := verifyOutput{Valid: len(violations) == 0, Violations: violations}
		if out.Violations == nil {
			out.Violations = []engine.Violation{}
		}
		if err := writeJSON(w, out); err != nil {
			return err
		}
	} else if len(violations) == 0 {
		fmt.Fprintf(w, "Layout valid: %d units checked\n", len(result.Items))
	} else {
		for _, v := range violations {
			fmt.Fprintln(w, v)
		}
	}

	if len(violations) > 0 {
		return NewCLIError(ExitGeneralError, fmt.Sprintf("layout has %d violation(s)", len(violations)))
	}
	return nil
}
