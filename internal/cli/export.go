package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/attredit/internal/config"
	"github.com/matzehuels/attredit/pkg/editor"
	apperrors "github.com/matzehuels/attredit/pkg/errors"
)

// exportCommand creates the scripted export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		ops       []string
		output    string
		clipboard bool
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Apply edits to a file and export the result",
		Long: `Apply zero or more edits, in order, and export the result as indented JSON.

Edits use the same syntax as the HTTP API:

  set <equip>:<attr> <value>     set a row's value
  set-attr <equip>:<attr> <id>   change a row's attribute
  up <equip>:<attr>              move a row up within its group
  down <equip>:<attr>            move a row down within its group
  delete <equip>:<attr>          delete a row
  add <equip>                    append a row with the default attribute

The destination is -o, --clipboard, or the config's export_target.`,
		Example: `  attredit export items.json --op "set 0:1 25" --op "delete 2:0" -o out.json
  cat items.json | attredit export - --op "add 3" --clipboard`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sink, err := c.exportSink(output, clipboard, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			parsed := make([]editor.Op, 0, len(ops))
			for _, s := range ops {
				op, err := editor.ParseOp(s)
				if err != nil {
					return err
				}
				parsed = append(parsed, op)
			}

			cat, err := c.catalog()
			if err != nil {
				return err
			}
			records, err := readRecords(cmd, args[0])
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			ed := editor.New(cat, logNotifier(loggerFromContext(cmd.Context())))
			ed.LoadRecords(cmd.Context(), records)
			for _, op := range parsed {
				if _, err := ed.Apply(cmd.Context(), op); err != nil {
					return fmt.Errorf("%s: %w", op, err)
				}
			}
			if err := ed.Export(cmd.Context(), sink); err != nil {
				return err
			}

			prog.done(fmt.Sprintf("Exported %d records with %d edits to %s", len(records), len(parsed), sink.Name()))
			if fs, ok := sink.(editor.FileSink); ok {
				printFile(fs.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ops, "op", nil, "edit to apply (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file")
	cmd.Flags().BoolVar(&clipboard, "clipboard", false, "copy to the clipboard")
	_ = cmd.RegisterFlagCompletionFunc("op", completeOps)

	return cmd
}

// exportSink picks the destination: flags first, then the config's
// export_target.
func (c *CLI) exportSink(output string, clipboard bool, stdout io.Writer) (editor.Sink, error) {
	if output != "" && clipboard {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "--output and --clipboard are mutually exclusive")
	}
	if output != "" {
		if err := apperrors.ValidatePath(output); err != nil {
			return nil, err
		}
		return editor.FileSink{Path: output}, nil
	}
	if clipboard {
		return editor.NewClipboardSink(), nil
	}

	cfg := c.config()
	switch cfg.ExportTarget {
	case config.TargetClipboard:
		return editor.NewClipboardSink(), nil
	case config.TargetFile:
		return editor.FileSink{Path: cfg.ExportFile}, nil
	default:
		return editor.WriterSink{W: stdout, Label: "stdout"}, nil
	}
}
