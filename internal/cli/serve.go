package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/beavr/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Long: `Serve exposes decompose, combine and sample over HTTP. Datasets travel in
the request body; results are cached with the configured backend.`,
		Example: `  beavr serve --addr :8080`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			printInfo("Listening on %s", addr)
			printKeyValue("Cache", c.Config.Cache.Backend)
			if c.Config.Path != "" {
				printKeyValue("Config", c.Config.Path)
			}
			return server.New(runner, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
