package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/attredit/pkg/attr"
	"github.com/matzehuels/attredit/pkg/catalog"
	"github.com/matzehuels/attredit/pkg/editor"
)

// inspectCommand creates the command that prints the attribute rows of a file.
func (c *CLI) inspectCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the attribute rows of a file",
		Long: `Print every attribute row grouped by equipment record.

Use "-" to read from stdin, and --json for machine-readable output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.catalog()
			if err != nil {
				return err
			}
			records, err := readRecords(cmd, args[0])
			if err != nil {
				return err
			}

			ed := editor.New(cat, logNotifier(loggerFromContext(cmd.Context())))
			ed.LoadRecords(cmd.Context(), records)
			groups := ed.Groups()

			out := cmd.OutOrStdout()
			if jsonOut {
				if groups == nil {
					groups = []attr.Group{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(groups)
			}

			m := ed.Model()
			fmt.Fprintln(out, StyleTitle.Render(args[0]))
			fmt.Fprintln(out, StyleDim.Render(fmt.Sprintf("%d records · %d attributes · %d groups",
				m.RecordCount(), m.Len(), len(groups))))
			if len(groups) == 0 {
				return nil
			}
			fmt.Fprintln(out, renderGroupsTable(groups, cat))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print groups as JSON")

	return cmd
}

// renderGroupsTable renders one table row per attribute row. The equipment
// name is only printed on the first row of each group.
func renderGroupsTable(groups []attr.Group, cat *catalog.Catalog) string {
	var rows [][]string
	for _, g := range groups {
		if len(g.Rows) == 0 {
			rows = append(rows, []string{strconv.Itoa(g.EquipIndex), g.EquipmentName, "", "", "", ""})
			continue
		}
		for i, r := range g.Rows {
			equip, name := "", ""
			if i == 0 {
				equip, name = strconv.Itoa(g.EquipIndex), g.EquipmentName
			}
			value := r.Value
			if opt, ok := cat.Attribute(r.AttrID); ok && opt.Percent() {
				value += "%"
			}
			rows = append(rows, []string{equip, name, strconv.Itoa(r.AttrIndex), r.AttrName, strconv.Itoa(r.AttrID), value})
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Equipment", "Idx", "Attribute", "ID", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 5:
				return StyleNumber
			case col == 0 || col == 2 || col == 4:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
