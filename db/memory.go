package db

import (
	"context"
	"slices"
	"strings"

	"github.com/dasdy/bankingai/fixtures"
	"github.com/dasdy/bankingai/model"
)

// MemoryCatalog serves a fixture set straight from memory. Every
// returned value is a copy, so callers may filter and sort freely.
type MemoryCatalog struct {
	set *fixtures.Set
}

func NewMemoryCatalog(set *fixtures.Set) *MemoryCatalog {
	return &MemoryCatalog{set: set}
}

func (c *MemoryCatalog) Examples(_ context.Context) ([]model.ExampleQuery, error) {
	return slices.Clone(c.set.Examples), nil
}

// Results returns the mocked result for any query. A blank query keeps
// the fixture's own question.
func (c *MemoryCatalog) Results(_ context.Context, query string) (*model.QueryResult, error) {
	result := c.set.Result
	result.Transactions = slices.Clone(result.Transactions)

	if q := strings.TrimSpace(query); q != "" {
		result.UserQuery = q
	}

	return &result, nil
}

// Transaction returns the detail fixture under the requested id.
func (c *MemoryCatalog) Transaction(_ context.Context, id string) (*model.TransactionDetail, error) {
	if err := CheckTransactionID(id); err != nil {
		return nil, err
	}

	detail := c.set.Detail
	detail.TransactionID = id
	detail.Sections = cloneSections(detail.Sections)

	return &detail, nil
}

func (c *MemoryCatalog) Summary(_ context.Context, id string) (string, error) {
	if err := CheckTransactionID(id); err != nil {
		return "", err
	}

	return c.set.Summary(id), nil
}

func (c *MemoryCatalog) Close() error {
	return nil
}

func cloneSections(sections []model.Section) []model.Section {
	result := make([]model.Section, len(sections))

	for i, s := range sections {
		s.Items = slices.Clone(s.Items)
		result[i] = s
	}

	return result
}
