package bankingai

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dasdy/bankingai/layout"
	"github.com/dasdy/bankingai/model"
	"github.com/spf13/cobra"
)

var (
	columnsWidth    int
	columnsExpanded string
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(30)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	expandedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderColumns draws each column as a box listing its sections with
// their estimated heights.
func renderColumns(assignment layout.Assignment[model.Section], expanded layout.ExpansionSet, est layout.Estimator) string {
	boxes := make([]string, 0, len(assignment.Columns))

	for i, column := range assignment.Columns {
		lines := []string{headerStyle.Render(fmt.Sprintf("Column %d · %dpx", i+1, assignment.Heights[i]))}

		for _, section := range column {
			open := expanded.Has(section.ID)
			height := est.EstimateHeight(open, len(section.Items))

			line := fmt.Sprintf("%s (%d)", section.ID, height)
			if open {
				lines = append(lines, expandedStyle.Render("▾ "+line))
			} else {
				lines = append(lines, mutedStyle.Render("▸ "+line))
			}
		}

		boxes = append(boxes, columnStyle.Render(strings.Join(lines, "\n")))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// columnsCmd represents the columns command.
var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Print the column layout of the transaction detail page",
	Long: `Balance the detail sections for a viewport width and expansion state and
print the resulting columns side by side.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := estimator.Validate(); err != nil {
			return err
		}

		set, err := loadFixtures()
		if err != nil {
			return fmt.Errorf("could not load fixtures: %w", err)
		}

		expanded := layout.ParseExpansion(columnsExpanded, cmd.Flags().Changed("expanded"))
		columnCount := layout.SelectColumnCount(columnsWidth)

		assignment, err := layout.DistributeSections(set.Detail.Sections, expanded, columnCount, estimator)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderColumns(assignment, expanded, estimator))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)

	columnsCmd.Flags().IntVarP(&columnsWidth, "width", "w", 1280, "Viewport width in pixels")
	columnsCmd.Flags().StringVarP(&columnsExpanded, "expanded", "e", "",
		"Comma separated ids of expanded sections (default: "+layout.DefaultExpandedSection+")")

	addEstimatorFlags(columnsCmd)
}
