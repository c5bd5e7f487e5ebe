package db

import (
	"context"
	"time"

	"github.com/dasdy/bankingai/errs"
	"github.com/dasdy/bankingai/model"
)

// Catalog serves the example queries, the mocked query result and
// transaction details.
type Catalog interface {
	Examples(ctx context.Context) ([]model.ExampleQuery, error)
	Results(ctx context.Context, query string) (*model.QueryResult, error)
	Transaction(ctx context.Context, id string) (*model.TransactionDetail, error)
	Summary(ctx context.Context, id string) (string, error)
	Close() error
}

// QueryLog keeps the queries submitted through the search form.
type QueryLog interface {
	Record(ctx context.Context, query string, at time.Time) error
	Recent(ctx context.Context, limit int) ([]model.LoggedQuery, error)
}

// Progress receives one tick per seeded row. *progressbar.ProgressBar
// satisfies it.
type Progress interface {
	Add(num int) error
}

const transactionIDLength = 16

// CheckTransactionID rejects ids that are not 16 ASCII digits.
func CheckTransactionID(id string) error {
	if len(id) != transactionIDLength {
		return errs.New(errs.CodeInvalidInput, "transaction id must have %d digits, got %q", transactionIDLength, id)
	}

	for _, c := range id {
		if c < '0' || c > '9' {
			return errs.New(errs.CodeInvalidInput, "transaction id must be numeric, got %q", id)
		}
	}

	return nil
}
