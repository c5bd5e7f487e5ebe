package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a transaction.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

type Transaction struct {
	TransactionID string
	Date          string
	Amount        decimal.Decimal
	Merchant      string
	Category      string
	Status        Status
	PaymentMethod string
}

// DataItem is one key/value row of a detail section.
type DataItem struct {
	Key   string
	Value string
	Type  string
}

// Section is one expandable panel on the transaction page.
type Section struct {
	ID    string
	Title string
	Icon  string
	Color string
	Items []DataItem
}

type TransactionDetail struct {
	TransactionID  string
	Status         Status
	Amount         decimal.Decimal
	PaymentSummary string
	Sections       []Section
}

// SectionIDs lists the section ids in page order.
func (d *TransactionDetail) SectionIDs() []string {
	ids := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		ids = append(ids, s.ID)
	}

	return ids
}

// QueryResult is the answer shown on the results page.
type QueryResult struct {
	UserQuery    string
	Reasoning    string
	Transactions []Transaction
	ElasticQuery string
	PythonCode   string
}

type ExampleQuery struct {
	Text     string
	Category string
	Icon     string
	Gradient string
}

// LoggedQuery is a query submitted through the search form.
type LoggedQuery struct {
	Text string
	At   time.Time
}
