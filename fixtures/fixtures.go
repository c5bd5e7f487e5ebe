// Package fixtures holds the static answers the demo serves. The data
// lives in TOML files embedded in the binary; a directory with the same
// file names can replace them at startup.
package fixtures

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/dasdy/bankingai/errs"
	"github.com/dasdy/bankingai/model"
	"github.com/shopspring/decimal"
)

//go:embed data/*.toml
var embedded embed.FS

const (
	examplesFile    = "examples.toml"
	resultsFile     = "results.toml"
	transactionFile = "transaction.toml"
	summariesFile   = "summaries.toml"
)

// Set is every fixture the catalog can serve.
type Set struct {
	Examples       []model.ExampleQuery
	Result         model.QueryResult
	Detail         model.TransactionDetail
	Summaries      map[string]string
	DefaultSummary string
}

type exampleEntry struct {
	Text     string `toml:"text"`
	Category string `toml:"category"`
	Icon     string `toml:"icon"`
	Gradient string `toml:"gradient"`
}

type examplesDoc struct {
	Examples []exampleEntry `toml:"example"`
}

type transactionEntry struct {
	TransactionID string `toml:"transaction_id"`
	Date          string `toml:"date"`
	Amount        string `toml:"amount"`
	Merchant      string `toml:"merchant"`
	Category      string `toml:"category"`
	Status        string `toml:"status"`
	PaymentMethod string `toml:"payment_method"`
}

type resultsDoc struct {
	UserQuery    string             `toml:"user_query"`
	Reasoning    string             `toml:"reasoning"`
	ElasticQuery string             `toml:"elastic_query"`
	PythonCode   string             `toml:"python_code"`
	Transactions []transactionEntry `toml:"transaction"`
}

type itemEntry struct {
	Key   string `toml:"key"`
	Value string `toml:"value"`
	Type  string `toml:"type"`
}

type sectionEntry struct {
	ID    string      `toml:"id"`
	Title string      `toml:"title"`
	Icon  string      `toml:"icon"`
	Color string      `toml:"color"`
	Items []itemEntry `toml:"item"`
}

type detailDoc struct {
	TransactionID  string         `toml:"transaction_id"`
	Status         string         `toml:"status"`
	Amount         string         `toml:"amount"`
	PaymentSummary string         `toml:"payment_summary"`
	Sections       []sectionEntry `toml:"section"`
}

type summariesDoc struct {
	Default   string            `toml:"default"`
	Summaries map[string]string `toml:"summaries"`
}

// Embedded returns the fixture files compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}

	return sub
}

// FromPath opens a fixture directory. Relative paths are resolved
// against the working directory.
func FromPath(path string) (fs.FS, error) {
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not resolve fixture path %s: %w", path, err)
		}

		path = filepath.Join(wd, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not open fixture directory %s: %w", path, err)
	}

	if !info.IsDir() {
		return nil, errs.New(errs.CodeInvalidInput, "fixture path %s is not a directory", path)
	}

	slog.Info("Using fixture directory", "path", path)

	return os.DirFS(path), nil
}

// LoadDefault loads the embedded fixtures.
func LoadDefault() (*Set, error) {
	return Load(Embedded())
}

// Load decodes all fixture files from fsys.
func Load(fsys fs.FS) (*Set, error) {
	var examples examplesDoc
	if err := decode(fsys, examplesFile, &examples); err != nil {
		return nil, err
	}

	var results resultsDoc
	if err := decode(fsys, resultsFile, &results); err != nil {
		return nil, err
	}

	var detail detailDoc
	if err := decode(fsys, transactionFile, &detail); err != nil {
		return nil, err
	}

	var summaries summariesDoc
	if err := decode(fsys, summariesFile, &summaries); err != nil {
		return nil, err
	}

	set := &Set{
		Examples:       make([]model.ExampleQuery, 0, len(examples.Examples)),
		Summaries:      summaries.Summaries,
		DefaultSummary: summaries.Default,
	}

	for _, e := range examples.Examples {
		set.Examples = append(set.Examples, model.ExampleQuery(e))
	}

	result, err := convertResults(results)
	if err != nil {
		return nil, err
	}

	set.Result = result

	set.Detail, err = convertDetail(detail)
	if err != nil {
		return nil, err
	}

	if set.Summaries == nil {
		set.Summaries = map[string]string{}
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("Loaded fixtures",
		"examples", len(set.Examples),
		"transactions", len(set.Result.Transactions),
		"sections", len(set.Detail.Sections))

	return set, nil
}

func decode(fsys fs.FS, name string, v any) error {
	if _, err := toml.DecodeFS(fsys, name, v); err != nil {
		return errs.Wrap(errs.CodeInternal, err, "could not decode fixture %s", name)
	}

	return nil
}

func convertResults(doc resultsDoc) (model.QueryResult, error) {
	result := model.QueryResult{
		UserQuery:    doc.UserQuery,
		Reasoning:    doc.Reasoning,
		ElasticQuery: doc.ElasticQuery,
		PythonCode:   doc.PythonCode,
		Transactions: make([]model.Transaction, 0, len(doc.Transactions)),
	}

	for _, t := range doc.Transactions {
		amount, err := parseAmount(t.Amount, t.TransactionID)
		if err != nil {
			return model.QueryResult{}, err
		}

		result.Transactions = append(result.Transactions, model.Transaction{
			TransactionID: t.TransactionID,
			Date:          t.Date,
			Amount:        amount,
			Merchant:      t.Merchant,
			Category:      t.Category,
			Status:        model.Status(t.Status),
			PaymentMethod: t.PaymentMethod,
		})
	}

	return result, nil
}

func convertDetail(doc detailDoc) (model.TransactionDetail, error) {
	amount, err := parseAmount(doc.Amount, doc.TransactionID)
	if err != nil {
		return model.TransactionDetail{}, err
	}

	detail := model.TransactionDetail{
		TransactionID:  doc.TransactionID,
		Status:         model.Status(doc.Status),
		Amount:         amount,
		PaymentSummary: doc.PaymentSummary,
		Sections:       make([]model.Section, 0, len(doc.Sections)),
	}

	for _, s := range doc.Sections {
		items := make([]model.DataItem, 0, len(s.Items))
		for _, it := range s.Items {
			items = append(items, model.DataItem(it))
		}

		detail.Sections = append(detail.Sections, model.Section{
			ID:    s.ID,
			Title: s.Title,
			Icon:  s.Icon,
			Color: s.Color,
			Items: items,
		})
	}

	return detail, nil
}

func parseAmount(raw, id string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, errs.Wrap(errs.CodeInternal, err, "bad amount %q for transaction %s", raw, id)
	}

	return amount, nil
}

// Validate checks ids are unique and statuses are known.
func (s *Set) Validate() error {
	txnIDs := make(map[string]struct{}, len(s.Result.Transactions))

	for _, t := range s.Result.Transactions {
		if _, dup := txnIDs[t.TransactionID]; dup {
			return errs.New(errs.CodeInternal, "duplicate transaction id %s", t.TransactionID)
		}

		txnIDs[t.TransactionID] = struct{}{}

		if !t.Status.Valid() {
			return errs.New(errs.CodeInternal, "transaction %s has unknown status %q", t.TransactionID, t.Status)
		}
	}

	sectionIDs := make(map[string]struct{}, len(s.Detail.Sections))

	for _, sec := range s.Detail.Sections {
		if _, dup := sectionIDs[sec.ID]; dup {
			return errs.New(errs.CodeInternal, "duplicate section id %s", sec.ID)
		}

		sectionIDs[sec.ID] = struct{}{}
	}

	return nil
}

// Summary returns the one-line summary of a transaction, falling back to
// the default text for unknown ids.
func (s *Set) Summary(id string) string {
	if text, ok := s.Summaries[id]; ok {
		return text
	}

	return s.DefaultSummary
}
