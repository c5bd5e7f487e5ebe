package bankingai

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/dasdy/bankingai/layout"
	"github.com/dasdy/bankingai/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with an empty config file so no
// example config is written into the package directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfg := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfg, nil, 0o600))

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))

	err := rootCmd.Execute()

	return out.String(), err
}

func TestRenderColumns(t *testing.T) {
	sections := []model.Section{
		{ID: "payment-events", Items: make([]model.DataItem, 2)},
		{ID: "risk", Items: make([]model.DataItem, 9)},
		{ID: "network", Items: make([]model.DataItem, 1)},
	}
	expanded := layout.DefaultExpansion()
	est := layout.DefaultEstimator()

	assignment, err := layout.DistributeSections(sections, expanded, 2, est)
	require.NoError(t, err)

	out := renderColumns(assignment, expanded, est)

	assert.Contains(t, out, "Column 1 · 250px")
	assert.Contains(t, out, "Column 2 · 300px")
	assert.Contains(t, out, "▾ payment-events (250)")
	assert.Contains(t, out, "▸ risk (150)")
	assert.Contains(t, out, "▸ network (150)")
}

func TestColumnsCommand(t *testing.T) {
	out, err := run(t, "columns", "--width", "1000", "--expanded", "compliance,customer-info")
	require.NoError(t, err)

	assert.Contains(t, out, "Column 2")
	assert.NotContains(t, out, "Column 3")
	assert.Contains(t, out, "▾ compliance (575)")
	assert.Contains(t, out, "▸ payment-events (150)")
}

func TestExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	_, err := run(t, "export", "--out", path, "--where", "amount > 20000.0", "--sort", "amount", "--desc")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Apple Store", records[1][3])
	assert.Equal(t, "HDFC Credit Card", records[2][3])
}

func TestSeedCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.sqlite")

	_, err := run(t, "seed", "--storage", path)
	require.NoError(t, err)

	_, err = run(t, "seed", "--storage", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already seeded")

	_, err = run(t, "seed", "--storage", path, "--force")
	require.NoError(t, err)

	t.Run("export reads the seeded catalog", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "seeded.csv")

		_, err := run(t, "export", "--storage", path, "--out", out, "--where", "", "--sort", "", "--merchant", "zomato")
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Zomato")
		assert.NotContains(t, string(data), "Flipkart")
	})
}
