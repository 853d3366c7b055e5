package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CargoFit/internal/model"
	"github.com/piwi3910/CargoFit/internal/server"
)

type serveFlags struct {
	addr       string
	workers    int
	runTimeout time.Duration
	noStore    bool
}

// NewServeCommand creates the "serve" command.
func NewServeCommand() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the packing engine over HTTP",
		Long: `Serve the JSON API:

  POST   /api/v1/pack              pack a cargo file body (?save=<name> to store it)
  POST   /api/v1/compare           run the what-if scenarios
  POST   /api/v1/verify            re-check a posted result
  GET    /api/v1/presets           container catalog
  GET    /api/v1/layouts           saved layouts
  POST   /api/v1/layouts           save a result
  GET    /api/v1/layouts/{id}      one saved layout
  DELETE /api/v1/layouts/{id}
  GET    /api/v1/layouts/{id}/plan.pdf
  GET    /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", ":8080", "Listen address")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Concurrent packing runs (0 = config value or CPU count)")
	cmd.Flags().DurationVar(&flags.runTimeout, "run-timeout", time.Minute, "Deadline per request, including the wait for a worker")
	cmd.Flags().BoolVar(&flags.noStore, "no-store", false, "Disable the layouts database")
	return cmd
}

func runServe(cmd *cobra.Command, flags *serveFlags) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)

	workers := flags.workers
	if workers <= 0 {
		workers = cfg.Workers
	}

	var layouts server.LayoutStore
	if !flags.noStore {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		layouts = st
	}

	srv := server.New(server.Config{Workers: workers, RunTimeout: flags.runTimeout, Settings: settings}, layouts)
	if err := srv.ListenAndServe(cmd.Context(), flags.addr); err != nil {
		return WrapCLIError(ExitGeneralError, "server failed", err)
	}
	return nil
}
