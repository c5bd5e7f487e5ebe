package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dasdy/bankingai/errs"
	"github.com/dasdy/bankingai/fixtures"
	"github.com/dasdy/bankingai/model"

	_ "github.com/mattn/go-sqlite3"
)

var schema = []string{
	`create table if not exists examples(
		position integer primary key, text text, category text, icon text, gradient text)`,
	`create table if not exists results(
		id integer primary key, user_query text, reasoning text,
		elastic_query text, python_code text, default_summary text)`,
	`create table if not exists transactions(
		transaction_id text primary key, position integer, date text, amount text,
		merchant text, category text, status text, payment_method text)`,
	`create table if not exists summaries(transaction_id text primary key, summary text)`,
	`create table if not exists detail(
		id integer primary key, status text, amount text, payment_summary text)`,
	`create table if not exists sections(
		id text primary key, position integer, title text, icon text, color text)`,
	`create table if not exists section_items(
		section_id text, position integer, key text, value text, type text,
		primary key (section_id, position))`,
	`create table if not exists queries(text text, at datetime)`,
	`create index if not exists queries_atix on queries (at desc)`,
}

// seededTables are wiped before every seed.
var seededTables = []string{"examples", "results", "transactions", "summaries", "detail", "sections", "section_items"}

func InitDBStorage(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			slog.ErrorContext(ctx, "Could not init storage", "statement", stmt, "error", err)

			return fmt.Errorf("could not init storage: %w", err)
		}
	}

	return nil
}

// ConnectDB opens the SQLite database at path and makes sure the schema
// exists.
func ConnectDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open database %s: %w", path, err)
	}

	// :memory: databases live per connection.
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	if err := InitDBStorage(ctx, db); err != nil {
		db.Close()

		return nil, err
	}

	return db, nil
}

// SQLiteCatalog reads fixtures seeded into SQLite.
type SQLiteCatalog struct {
	db *sql.DB
}

func NewSQLiteCatalog(db *sql.DB) *SQLiteCatalog {
	return &SQLiteCatalog{db}
}

// SeedRowCount is the number of progress ticks Seed reports for set.
func SeedRowCount(set *fixtures.Set) int {
	count := len(set.Examples) + 1 + len(set.Result.Transactions) + len(set.Summaries) + 1 + len(set.Detail.Sections)

	for _, s := range set.Detail.Sections {
		count += len(s.Items)
	}

	return count
}

// Seeded reports whether Seed has run on this database.
func (s *SQLiteCatalog) Seeded(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `select count(*) from results`).Scan(&count); err != nil {
		return false, fmt.Errorf("could not check seed state: %w", err)
	}

	return count > 0, nil
}

// Seed replaces the catalog content with set inside one transaction.
// progress may be nil.
func (s *SQLiteCatalog) Seed(ctx context.Context, set *fixtures.Set, progress Progress) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start seed transaction: %w", err)
	}

	if err := seed(ctx, tx, set, progress); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Could not roll back seed", "error", rbErr)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit seed: %w", err)
	}

	slog.InfoContext(ctx, "Seeded catalog", "rows", SeedRowCount(set))

	return nil
}

type seeder struct {
	ctx      context.Context
	tx       *sql.Tx
	progress Progress
}

func (sd *seeder) exec(query string, args ...any) error {
	if _, err := sd.tx.ExecContext(sd.ctx, query, args...); err != nil {
		return fmt.Errorf("could not seed: %w", err)
	}

	if sd.progress != nil {
		if err := sd.progress.Add(1); err != nil {
			slog.DebugContext(sd.ctx, "Progress update failed", "error", err)
		}
	}

	return nil
}

func seed(ctx context.Context, tx *sql.Tx, set *fixtures.Set, progress Progress) error {
	for _, table := range seededTables {
		if _, err := tx.ExecContext(ctx, "delete from "+table); err != nil {
			return fmt.Errorf("could not clear %s: %w", table, err)
		}
	}

	sd := &seeder{ctx: ctx, tx: tx, progress: progress}

	for i, e := range set.Examples {
		if err := sd.exec(`insert into examples(position, text, category, icon, gradient) values(?, ?, ?, ?, ?)`,
			i, e.Text, e.Category, e.Icon, e.Gradient); err != nil {
			return err
		}
	}

	r := set.Result
	if err := sd.exec(`insert into results(id, user_query, reasoning, elastic_query, python_code, default_summary)
		values(1, ?, ?, ?, ?, ?)`, r.UserQuery, r.Reasoning, r.ElasticQuery, r.PythonCode, set.DefaultSummary); err != nil {
		return err
	}

	for i, t := range r.Transactions {
		if err := sd.exec(`insert into transactions(transaction_id, position, date, amount, merchant, category, status, payment_method)
			values(?, ?, ?, ?, ?, ?, ?, ?)`,
			t.TransactionID, i, t.Date, t.Amount.String(), t.Merchant, t.Category, string(t.Status), t.PaymentMethod); err != nil {
			return err
		}
	}

	for id, text := range set.Summaries {
		if err := sd.exec(`insert into summaries(transaction_id, summary) values(?, ?)`, id, text); err != nil {
			return err
		}
	}

	d := set.Detail
	if err := sd.exec(`insert into detail(id, status, amount, payment_summary) values(1, ?, ?, ?)`,
		string(d.Status), d.Amount.String(), d.PaymentSummary); err != nil {
		return err
	}

	for i, sec := range d.Sections {
		if err := sd.exec(`insert into sections(id, position, title, icon, color) values(?, ?, ?, ?, ?)`,
			sec.ID, i, sec.Title, sec.Icon, sec.Color); err != nil {
			return err
		}

		for j, it := range sec.Items {
			if err := sd.exec(`insert into section_items(section_id, position, key, value, type) values(?, ?, ?, ?, ?)`,
				sec.ID, j, it.Key, it.Value, it.Type); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *SQLiteCatalog) Examples(ctx context.Context) ([]model.ExampleQuery, error) {
	rows, err := s.db.QueryContext(ctx, `select text, category, icon, gradient from examples order by position`)
	if err != nil {
		return nil, fmt.Errorf("could not query examples: %w", err)
	}
	defer rows.Close()

	result := make([]model.ExampleQuery, 0)

	for rows.Next() {
		var e model.ExampleQuery
		if err := rows.Scan(&e.Text, &e.Category, &e.Icon, &e.Gradient); err != nil {
			return nil, fmt.Errorf("could not scan example: %w", err)
		}

		result = append(result, e)
	}

	return result, rows.Err()
}

func (s *SQLiteCatalog) Results(ctx context.Context, query string) (*model.QueryResult, error) {
	var r model.QueryResult

	err := s.db.QueryRowContext(ctx,
		`select user_query, reasoning, elastic_query, python_code from results where id = 1`).
		Scan(&r.UserQuery, &r.Reasoning, &r.ElasticQuery, &r.PythonCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.CodeNotFound, "catalog has no query result, run seed first")
	}

	if err != nil {
		return nil, fmt.Errorf("could not query results: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`select transaction_id, date, amount, merchant, category, status, payment_method
		from transactions order by position`)
	if err != nil {
		return nil, fmt.Errorf("could not query transactions: %w", err)
	}
	defer rows.Close()

	r.Transactions = make([]model.Transaction, 0)

	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.TransactionID, &t.Date, &t.Amount, &t.Merchant, &t.Category, &t.Status, &t.PaymentMethod); err != nil {
			return nil, fmt.Errorf("could not scan transaction: %w", err)
		}

		r.Transactions = append(r.Transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read transactions: %w", err)
	}

	if q := strings.TrimSpace(query); q != "" {
		r.UserQuery = q
	}

	return &r, nil
}

func (s *SQLiteCatalog) Transaction(ctx context.Context, id string) (*model.TransactionDetail, error) {
	if err := CheckTransactionID(id); err != nil {
		return nil, err
	}

	d := model.TransactionDetail{TransactionID: id}

	err := s.db.QueryRowContext(ctx, `select status, amount, payment_summary from detail where id = 1`).
		Scan(&d.Status, &d.Amount, &d.PaymentSummary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.CodeNotFound, "no details for transaction %s", id)
	}

	if err != nil {
		return nil, fmt.Errorf("could not query detail: %w", err)
	}

	sections, err := s.sections(ctx)
	if err != nil {
		return nil, err
	}

	d.Sections = sections

	return &d, nil
}

func (s *SQLiteCatalog) sections(ctx context.Context) ([]model.Section, error) {
	rows, err := s.db.QueryContext(ctx,
		`select s.id, s.title, s.icon, s.color, i.key, i.value, i.type
		from sections s left join section_items i on i.section_id = s.id
		order by s.position, i.position`)
	if err != nil {
		return nil, fmt.Errorf("could not query sections: %w", err)
	}
	defer rows.Close()

	result := make([]model.Section, 0)

	for rows.Next() {
		var (
			sec              model.Section
			key, value, kind sql.NullString
		)

		if err := rows.Scan(&sec.ID, &sec.Title, &sec.Icon, &sec.Color, &key, &value, &kind); err != nil {
			return nil, fmt.Errorf("could not scan section: %w", err)
		}

		if len(result) == 0 || result[len(result)-1].ID != sec.ID {
			sec.Items = make([]model.DataItem, 0)
			result = append(result, sec)
		}

		if key.Valid {
			last := &result[len(result)-1]
			last.Items = append(last.Items, model.DataItem{Key: key.String, Value: value.String, Type: kind.String})
		}
	}

	return result, rows.Err()
}

func (s *SQLiteCatalog) Summary(ctx context.Context, id string) (string, error) {
	if err := CheckTransactionID(id); err != nil {
		return "", err
	}

	var text string

	err := s.db.QueryRowContext(ctx,
		`select coalesce((select summary from summaries where transaction_id = ?), default_summary)
		from results where id = 1`, id).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errs.New(errs.CodeNotFound, "no summary for transaction %s", id)
	}

	if err != nil {
		return "", fmt.Errorf("could not query summary: %w", err)
	}

	return text, nil
}

func (s *SQLiteCatalog) Close() error {
	return s.db.Close()
}
