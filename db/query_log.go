package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dasdy/bankingai/errs"
	"github.com/dasdy/bankingai/model"
)

// SQLiteQueryLog stores submitted queries in the queries table.
type SQLiteQueryLog struct {
	db *sql.DB
}

func NewQueryLog(db *sql.DB) *SQLiteQueryLog {
	return &SQLiteQueryLog{db}
}

func (l *SQLiteQueryLog) Record(ctx context.Context, query string, at time.Time) error {
	if _, err := l.db.ExecContext(ctx, `insert into queries(text, at) values(?, ?)`, query, at.UTC()); err != nil {
		return fmt.Errorf("could not record query: %w", err)
	}

	return nil
}

// Recent returns up to limit queries, newest first.
func (l *SQLiteQueryLog) Recent(ctx context.Context, limit int) ([]model.LoggedQuery, error) {
	if limit < 1 {
		return nil, errs.New(errs.CodeInvalidArgument, "limit must be positive, got %d", limit)
	}

	rows, err := l.db.QueryContext(ctx, `select text, at from queries order by at desc, rowid desc limit ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("could not query recent searches: %w", err)
	}
	defer rows.Close()

	result := make([]model.LoggedQuery, 0, limit)

	for rows.Next() {
		var q model.LoggedQuery
		if err := rows.Scan(&q.Text, &q.At); err != nil {
			return nil, fmt.Errorf("could not scan query: %w", err)
		}

		result = append(result, q)
	}

	return result, rows.Err()
}
