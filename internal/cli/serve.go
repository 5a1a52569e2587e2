package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/handbook/internal/server"
)

// serveCommand creates the serve command that runs the HTTP endpoint.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sheet generator over HTTP",
		Long: `Serve the sheet generator over HTTP.

Endpoints:
  GET  /               upload form
  POST /generate-pdf   returns handbook_with_bg.pdf
  POST /preview        returns an inline PNG
  GET  /sizes          supported sheet sizes (JSON)
  GET  /healthz        liveness probe

The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			srv := server.New(cfg, c.Logger)
			printInfo("Serving on %s", StyleValue.Render("http://"+displayAddr(cfg.Server.Addr)))
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:5000)")
	return cmd
}

// displayAddr turns ":5000" into "localhost:5000" for printing.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
