package bankingai

import (
	"fmt"
	"log/slog"

	"github.com/dasdy/bankingai/db"
	"github.com/dasdy/bankingai/logging"
	"github.com/spf13/cobra"
)

var (
	forceSeed bool
	seedPath  string
)

// seedCmd represents the seed command.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a SQLite catalog with the fixtures",
	Long:  `Create the catalog tables in the storage file and copy the fixtures into them.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := logging.WithPackage(cmd.Context(), "seed")

		if seedPath == "" {
			return fmt.Errorf("--storage is required")
		}

		set, err := loadFixtures()
		if err != nil {
			return fmt.Errorf("could not load fixtures: %w", err)
		}

		conn, err := db.ConnectDB(ctx, seedPath)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", seedPath, err)
		}

		catalog := db.NewSQLiteCatalog(conn)
		defer catalog.Close()

		seeded, err := catalog.Seeded(ctx)
		if err != nil {
			return err
		}

		if seeded && !forceSeed {
			return fmt.Errorf("%s is already seeded, use --force to replace it", seedPath)
		}

		if err := catalog.Seed(ctx, set, newProgress(set, "Seeding catalog")); err != nil {
			return err
		}

		slog.InfoContext(ctx, "Catalog ready", "path", seedPath)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVarP(
		&seedPath,
		"storage",
		"s",
		"./bankingai.sqlite",
		"SQLite file to seed")

	seedCmd.Flags().BoolVar(&forceSeed, "force", false, "Replace an already seeded catalog")
}
