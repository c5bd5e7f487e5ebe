package query_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/dasdy/bankingai/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, query.WriteCSV(&buf, sample()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 5)
	assert.Equal(t, "Transaction ID", records[0][0])
	assert.Equal(t, []string{"1", "2024-05-15", "15750.00", "Amazon India", "Shopping", "completed", "UPI"}, records[1])
	assert.Equal(t, "failed", records[4][5])
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, query.WriteCSVFile(path, sample()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Amazon India")

	assert.Error(t, query.WriteCSVFile(filepath.Join(t.TempDir(), "missing", "out.csv"), nil))
}
