package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/coinfocus/internal/web"
)

func newServeCmd(s *session, ver string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the asset detail page over HTTP",
		Long: `Starts an HTTP server with a home form at / and the detail page at
/detail/{id}. Every detail request fetches the asset once; an unavailable asset
redirects to /. The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  # Listen on the configured address (default :8080)
  coinfocus serve

  # Listen on a specific address
  coinfocus serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = s.cfg.Server.Addr
			}

			srv, err := web.NewServer(s.newClient(),
				web.WithLogger(s.base),
				web.WithCORSOrigins(s.cfg.Server.CORSOrigins...),
				web.WithViewOptions(s.viewOptions()...),
				web.WithVersion(ver),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cmd.Printf("Serving on %s\n", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config file and env var)")

	return cmd
}
