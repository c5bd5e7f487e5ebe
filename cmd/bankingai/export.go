package bankingai

import (
	"fmt"
	"log/slog"

	"github.com/dasdy/bankingai/logging"
	"github.com/dasdy/bankingai/query"
	"github.com/spf13/cobra"
)

var (
	exportOut    string
	exportQuery  string
	exportParams query.Params
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the results table as CSV",
	Long: `Answer a query from the fixtures, apply the table filters and write the
remaining transactions to a CSV file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := logging.WithPackage(cmd.Context(), "export")

		set, err := loadFixtures()
		if err != nil {
			return fmt.Errorf("could not load fixtures: %w", err)
		}

		catalog, _, err := openCatalog(ctx, storagePath, set)
		if err != nil {
			return err
		}
		defer catalog.Close()

		result, err := catalog.Results(ctx, exportQuery)
		if err != nil {
			return err
		}

		filter, err := query.NewFilter()
		if err != nil {
			return err
		}

		rows, err := filter.Apply(result.Transactions, exportParams)
		if err != nil {
			return err
		}

		if err := query.WriteCSVFile(exportOut, rows); err != nil {
			return err
		}

		slog.InfoContext(ctx, "Exported transactions", "rows", len(rows), "out", exportOut)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&storagePath, "storage", "s", "",
		"SQLite file to read from (default: fixtures in memory)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "results.csv", "Output CSV path")
	exportCmd.Flags().StringVarP(&exportQuery, "query", "q", "", "Question to answer")
	exportCmd.Flags().StringVar(&exportParams.Merchant, "merchant", "", "Keep merchants containing this text")
	exportCmd.Flags().StringVar(&exportParams.Where, "where", "", `Filter expression, e.g. 'amount > 20000 && status == "completed"'`)
	exportCmd.Flags().StringVar(&exportParams.SortBy, "sort", "", "Sort column: date or amount")
	exportCmd.Flags().BoolVar(&exportParams.Desc, "desc", false, "Sort descending")
}
