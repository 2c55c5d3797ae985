package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rushteam/reckit-movies/api"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Load the catalog and both models, then serve the HTTP API until
SIGINT or SIGTERM.

Examples:
  movierec serve
  movierec serve --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, kv, err := a.loadService(ctx)
			if err != nil {
				return err
			}
			defer kv.Close()

			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return api.Serve(ctx, a.cfg.Server, api.NewRouter(svc, api.OptionsFromConfig(a.cfg)))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

