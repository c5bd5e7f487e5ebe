package bankingai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dasdy/bankingai/db"
	"github.com/dasdy/bankingai/fixtures"
	"github.com/schollz/progressbar/v3"
)

func loadFixtures() (*fixtures.Set, error) {
	if fixturesDir == "" {
		return fixtures.LoadDefault()
	}

	fsys, err := fixtures.FromPath(fixturesDir)
	if err != nil {
		return nil, err
	}

	return fixtures.Load(fsys)
}

// openCatalog serves the fixtures from memory, or from SQLite when a
// storage path is set. An unseeded database is seeded first. The query
// log is nil without storage.
func openCatalog(ctx context.Context, path string, set *fixtures.Set) (db.Catalog, db.QueryLog, error) {
	if path == "" {
		slog.InfoContext(ctx, "Serving fixtures from memory")

		return db.NewMemoryCatalog(set), nil, nil
	}

	conn, err := db.ConnectDB(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open %s as sqlite file: %w", path, err)
	}

	catalog := db.NewSQLiteCatalog(conn)

	seeded, err := catalog.Seeded(ctx)
	if err != nil {
		catalog.Close()

		return nil, nil, err
	}

	if !seeded {
		slog.InfoContext(ctx, "Storage is empty, seeding", "path", path)

		if err := catalog.Seed(ctx, set, newProgress(set, "Seeding catalog")); err != nil {
			catalog.Close()

			return nil, nil, err
		}
	}

	return catalog, db.NewQueryLog(conn), nil
}

func newProgress(set *fixtures.Set, description string) *progressbar.ProgressBar {
	return progressbar.Default(int64(db.SeedRowCount(set)), description)
}
