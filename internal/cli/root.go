package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/attredit/pkg/buildinfo"
	"github.com/matzehuels/attredit/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent pre-run loads the configuration file, attaches the logger
// to the command context and registers the logging hooks, so every
// subcommand can rely on all three.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "attredit edits equipment attribute lists",
		Long: `attredit views and edits the attribute lists nested in equipment records
(a JSON array of positional arrays whose field 16 holds [attributeId, value]
pairs) and exports the result as pretty-printed JSON.`,
		Version:       buildinfo.Resolved(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.SetEditorHooks(logHooks{c.Logger})
			observability.SetHTTPHooks(logHooks{c.Logger})
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/attredit/config.toml)")
	flags.StringVar(&c.attributesPath, "attributes", "", "attribute catalog (.json, .toml, .yaml)")
	flags.StringVar(&c.equipmentPath, "equipment", "", "equipment catalog (.json, .toml, .yaml)")

	root.AddCommand(c.editCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
