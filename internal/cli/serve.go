package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/internal/server"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mind map HTTP API",
		Long: `Serve the extract, layout, render and generate stages over HTTP.

Routes:
  GET  /health
  POST /v1/extract    {"text": "..."}
  POST /v1/layout     {"central": "Tree", "map": {...}}
  POST /v1/render     {"central": "Tree", "map": {...}, "formats": ["svg"]}
  POST /v1/generate   {"central": "Tree", "model": "openai/gpt-4o-mini"}
  GET  /v1/maps
  GET  /v1/maps/{central}

The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			runner, err := c.newRunner(cmd.Context(), noCache, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv, err := server.New(runner, c.Logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
