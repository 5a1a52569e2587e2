package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/handbook/pkg/paper"
	"github.com/matzehuels/handbook/pkg/pattern"
)

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// sizesCommand lists the supported sheet sizes.
func (c *CLI) sizesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sizes",
		Short: "List supported sheet sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printSizes(cmd.OutOrStdout(), c.cfg.Defaults.Size)
			return nil
		},
	}
}

// stylesCommand lists the pattern styles.
func (c *CLI) stylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List pattern styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printStyles(cmd.OutOrStdout(), c.cfg.Defaults.Style)
			return nil
		},
	}
}

func printSizes(w io.Writer, current string) {
	rows := [][]string{}
	for _, s := range paper.All() {
		mark := ""
		if s.Name == current {
			mark = "default"
		}
		rows = append(rows, []string{
			s.Name,
			fmt.Sprintf("%.0f × %.0f", s.WidthMM(), s.HeightMM()),
			fmt.Sprintf("%.2f × %.2f", s.Width, s.Height),
			mark,
		})
	}
	fmt.Fprintln(w, catalogTable([]string{"Size", "mm", "pt", ""}, rows))
}

func printStyles(w io.Writer, current string) {
	rows := [][]string{}
	for _, st := range pattern.Styles {
		mark := ""
		if string(st) == current {
			mark = "default"
		}
		rows = append(rows, []string{string(st), st.Describe(), mark})
	}
	fmt.Fprintln(w, catalogTable([]string{"Style", "Pattern", ""}, rows))
}

func catalogTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == len(headers)-1 {
				return StyleSuccess
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
