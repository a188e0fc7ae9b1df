// Package mysql implements a MySQL-backed storage.Repository with
// go-sql-driver/mysql. Rows are written as multi-row INSERT statements
// inside one transaction per CopyFrom.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"arxivdb/internal/storage"
	myddl "arxivdb/internal/storage/mysql/ddl"
)

const (
	// maxPlaceholders is the server's prepared statement parameter limit.
	maxPlaceholders = 65535
	maxKeyParams    = 1000
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN string // e.g. "user:pass@tcp(localhost:3306)/arxiv"
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

var _ storage.Repository = (*Repository)(nil)

// Close closes the connection pool.
func (r *Repository) Close() { _ = r.db.Close() }

// NewRepository parses cfg.DSN, forces parseTime and UTC so DATETIME columns
// round-trip as time.Time, and opens a pool.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	mc.ParseTime = true
	mc.Loc = time.UTC

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// CopyFrom inserts rows with multi-row INSERTs in a single transaction.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	var total int64
	err = storage.Chunks(len(rows), maxPlaceholders/len(columns), func(lo, hi int) error {
		args := make([]any, 0, (hi-lo)*len(columns))
		for _, row := range rows[lo:hi] {
			if len(row) != len(columns) {
				return fmt.Errorf("mysql: CopyFrom: row length %d != columns length %d", len(row), len(columns))
			}
			args = append(args, row...)
		}
		res, err := tx.ExecContext(ctx, insertSQL(table, columns, hi-lo), args...)
		if err != nil {
			return classify(fmt.Errorf("mysql: insert into %s: %w", table, err))
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("mysql: rows affected: %w", err)
		}
		total += n
		return nil
	})
	if err != nil {
		rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit: %w", err)
	}
	return total, nil
}

// ExistingKeys probes table.keyColumn with IN (?, ...) lists.
func (r *Repository) ExistingKeys(ctx context.Context, table, keyColumn string, keys []any) ([]string, error) {
	var out []string
	err := storage.Chunks(len(keys), maxKeyParams, func(lo, hi int) error {
		q := fmt.Sprintf(
			"SELECT %s FROM %s WHERE %s IN (%s)",
			myddl.QuoteIdent(keyColumn), myddl.QuoteFQN(table), myddl.QuoteIdent(keyColumn), placeholders(hi-lo),
		)
		rows, err := r.db.QueryContext(ctx, q, keys[lo:hi]...)
		if err != nil {
			return fmt.Errorf("mysql: query keys: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var v any
			if err := rows.Scan(&v); err != nil {
				return fmt.Errorf("mysql: scan key: %w", err)
			}
			out = append(out, storage.KeyString(v))
		}
		return rows.Err()
	})
	return out, err
}

// Count returns the number of rows in table.
func (r *Repository) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+myddl.QuoteFQN(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("mysql: count %s: %w", table, err)
	}
	return n, nil
}

// Exec executes a single statement.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// insertSQL builds INSERT INTO `t` (`a`, `b`) VALUES (?, ?), (?, ?) for n rows.
func insertSQL(table string, columns []string, n int) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = myddl.QuoteIdent(c)
	}
	tuple := "(" + placeholders(len(columns)) + ")"
	tuples := make([]string, n)
	for i := range tuples {
		tuples[i] = tuple
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		myddl.QuoteFQN(table), strings.Join(quoted, ", "), strings.Join(tuples, ", "),
	)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
