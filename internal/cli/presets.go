package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoFit/internal/model"
)

// NewPresetsCommand creates the "presets" command.
func NewPresetsCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in container presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var presets []model.ContainerPreset
			for _, p := range model.ContainerPresets {
				if category == "" || p.Category == category {
					presets = append(presets, p)
				}
			}

			w := cmd.OutOrStdout()
			if IsJSONOutput() {
				return writeJSON(w, presets)
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tINNER L x W x H (cm)\tMAX kg\tDESCRIPTION")
			for _, p := range presets {
				c := p.Container
				fmt.Fprintf(tw, "%s\t%s\t%.1f x %.1f x %.1f\t%.0f\t%s\n",
					p.Name, p.Category, c.Length, c.Width, c.Height, c.MaxWeight, p.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only list one category: sea-container, truck, air-container")
	return cmd
}
