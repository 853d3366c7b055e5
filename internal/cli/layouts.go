package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewLayoutsCommand creates the "layouts" command group.
func NewLayoutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "Manage saved layouts",
	}
	cmd.AddCommand(newLayoutsListCommand())
	cmd.AddCommand(newLayoutsShowCommand())
	cmd.AddCommand(newLayoutsDeleteCommand())
	cmd.AddCommand(newLayoutsExportCommand())
	return cmd
}

func newLayoutsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved layouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := st.List(cmd.Context())
			if err != nil {
				return WrapCLIError(ExitGeneralError, "failed to list layouts", err)
			}

			w := cmd.OutOrStdout()
			if IsJSONOutput() {
				return writeJSON(w, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(w, "No saved layouts")
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCONTAINER\tLOADED\tVOLUME %\tSAVED")
			for _, l := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%.1f\t%s\n", l.ID, l.Name, l.Container,
					l.FittedItems, l.TotalItems, l.Efficiency, l.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func newLayoutsShowCommand() *cobra.Command {
	var placements bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			l, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return WrapCLIError(ExitGeneralError, "failed to load layout", err)
			}

			w := cmd.OutOrStdout()
			if IsJSONOutput() {
				return writeJSON(w, l)
			}
			fmt.Fprintf(w, "%s (saved %s)\n\n", l.Name, l.CreatedAt.Local().Format("2006-01-02 15:04"))
			printSummary(w, l.Result)
			if placements {
				fmt.Fprintln(w)
				printPlacements(w, l.Result)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&placements, "placements", false, "List every placed unit")
	return cmd
}

func newLayoutsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return WrapCLIError(ExitGeneralError, "failed to delete layout", err)
			}
			if !IsJSONOutput() {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted layout %s\n", args[0])
			}
			return nil
		},
	}
}

func newLayoutsExportCommand() *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a saved layout as JSON, PDF, labels, XLSX or DXF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flags.requested() {
				return NewCLIError(ExitInvalidInput, "choose at least one of --out, --pdf, --labels, --xlsx, --dxf")
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			l, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return WrapCLIError(ExitGeneralError, "failed to load layout", err)
			}
			return flags.write(l.Result)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}
