package query

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/dasdy/bankingai/model"
)

var csvHeader = []string{"Transaction ID", "Date", "Amount", "Merchant", "Category", "Status", "Payment Method"}

// WriteCSV writes txns with a header row. Amounts keep two decimals and
// no currency sign so spreadsheets read them as numbers.
func WriteCSV(out io.Writer, txns []model.Transaction) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("could not write CSV header: %w", err)
	}

	for _, t := range txns {
		record := []string{
			t.TransactionID,
			t.Date,
			t.Amount.StringFixed(2),
			t.Merchant,
			t.Category,
			string(t.Status),
			t.PaymentMethod,
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("could not write CSV row for %s: %w", t.TransactionID, err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("could not flush CSV: %w", err)
	}

	return nil
}

// WriteCSVFile writes txns to path, replacing any existing file.
func WriteCSVFile(path string, txns []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output file %q: %w", path, err)
	}
	defer f.Close()

	return WriteCSV(f, txns)
}
