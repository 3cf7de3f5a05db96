package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/attredit/internal/server"
)

// serveCommand creates the command that serves an editing session over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve an editing session over a local HTTP API",
		Long: `Serve one editing session over HTTP until interrupted.

The optional file is loaded before the first request. GET /api/export
downloads the current result as exported_attributes.json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.catalog()
			if err != nil {
				return err
			}

			srv := server.New(cat, c.Logger)
			if len(args) == 1 {
				if err := srv.LoadFile(cmd.Context(), args[0]); err != nil {
					return err
				}
				printInfo("Loaded %s", args[0])
			}

			if listen == "" {
				listen = c.config().Listen
			}
			printInfo("Serving on %s", StyleLink.Render("http://"+listen))
			printNextStep("Download the result", "curl -OJ http://"+listen+"/api/export")

			err = srv.Serve(cmd.Context(), listen)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, 127.0.0.1:8420)")

	return cmd
}
