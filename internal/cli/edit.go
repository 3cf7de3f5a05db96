package cli

import (
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var (
		debounce   time.Duration
		exportFile string
		logFile    string
	)

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit equipment attributes interactively",
		Long: `Open the interactive editor.

The left pane holds the raw JSON input; edits are reparsed after a short
pause (--debounce). The right pane groups attribute rows by equipment record.
Use "-" to read the initial input from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.catalog()
			if err != nil {
				return err
			}

			var text string
			if len(args) == 1 {
				if text, err = readText(cmd, args[0]); err != nil {
					return err
				}
			}

			cfg := c.config()
			if !cmd.Flags().Changed("debounce") {
				debounce = cfg.DebounceDuration()
			}
			if exportFile == "" {
				exportFile = cfg.ExportFile
			}

			// The alternate screen owns the terminal; logs go to a file or nowhere.
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return err
				}
				defer f.Close()
				c.Logger.SetOutput(f)
			} else {
				c.Logger.SetOutput(io.Discard)
			}
			defer c.Logger.SetOutput(os.Stderr)

			m := newEditModel(cmd.Context(), cat, editOptions{
				Text:       text,
				Debounce:   debounce,
				ExportFile: exportFile,
			})
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "delay before reparsing edited input (default from config, 300ms)")
	cmd.Flags().StringVar(&exportFile, "export-file", "", "file written by the 'w' key (default exported_attributes.json)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file while the editor runs")

	return cmd
}
