package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoFit/internal/importer"
	"github.com/piwi3910/CargoFit/internal/model"
)

type chargeableLine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	model.ChargeableWeight
}

type chargeableOutput struct {
	Lines []chargeableLine       `json:"lines"`
	Total model.ChargeableWeight `json:"total"`
}

// NewChargeableCommand creates the "chargeable" command.
func NewChargeableCommand() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "chargeable [cargo-file]",
		Short: "Rate a cargo list by air freight chargeable weight",
		Long: `Computes volumetric weight (L x W x H / 6000 per unit), chargeable weight
(the larger of actual and volumetric) and CBM for each cargo line and for the
whole list as one shipment. No packing is done.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cargo importer.CargoFile
			var err error
			switch {
			case template != "" && len(args) > 0:
				return NewCLIError(ExitInvalidInput, "give either a cargo file or --template, not both")
			case template != "":
				cargo, err = loadTemplate(template)
			case len(args) == 1:
				cargo, err = loadCargo(args[0])
			default:
				return NewCLIError(ExitInvalidInput, "a cargo file or --template is required")
			}
			if err != nil {
				return err
			}
			if err := model.ValidateSpecs(cargo.Items); err != nil {
				return WrapCLIError(ExitInvalidInput, "invalid cargo list", err)
			}

			out := chargeableOutput{Total: model.ChargeableForSpecs(cargo.Items)}
			for _, s := range cargo.Items {
				out.Lines = append(out.Lines, chargeableLine{ID: s.ID, Name: s.Name, Quantity: s.Quantity, ChargeableWeight: s.Chargeable()})
			}

			w := cmd.OutOrStdout()
			if IsJSONOutput() {
				return writeJSON(w, out)
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "LINE\tQTY\tACTUAL kg\tVOLUMETRIC kg\tCHARGEABLE kg\tCBM")
			for _, l := range out.Lines {
				fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.1f\t%.3f\n", l.ID, l.Quantity, l.ActualWeight, l.VolumetricWeight, l.ChargeableWeight.ChargeableWeight, l.CBM)
			}
			t := out.Total
			fmt.Fprintf(tw, "TOTAL\t\t%.1f\t%.1f\t%.1f\t%.3f\n", t.ActualWeight, t.VolumetricWeight, t.ChargeableWeight, t.CBM)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "Rate a saved cargo template instead of a file")
	return cmd
}
