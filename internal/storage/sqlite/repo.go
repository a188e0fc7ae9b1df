// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and the pure-Go modernc.org/sqlite driver. Inserts run as a
// prepared statement inside one transaction per CopyFrom.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"arxivdb/internal/storage"
	sqliteddl "arxivdb/internal/storage/sqlite/ddl"
)

// maxKeyParams bounds the IN (...) list of one key probe.
const maxKeyParams = 500

// Config holds SQLite repository configuration.
type Config struct {
	// DSN is a file path or SQLite URI, e.g. "arxiv.db",
	// "file:arxiv.db?_pragma=busy_timeout(5000)" or ":memory:".
	DSN string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens dsn with a single connection, so ":memory:" databases persist
// for the life of the handle, and enables foreign key enforcement.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	return db, nil
}

// New wraps an already-open handle.
func New(db *sql.DB) *Repository { return &Repository{db: db} }

// DB exposes the underlying handle for ad-hoc queries.
func (r *Repository) DB() *sql.DB { return r.db }

// Close closes the underlying handle.
func (r *Repository) Close() { _ = r.db.Close() }

var _ storage.Repository = (*Repository)(nil)

// NewRepository opens cfg.DSN and returns a Repository plus a Close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := Open(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { _ = db.Close() }
	return New(db), closeFn, nil
}

// CopyFrom inserts rows into table inside a single transaction using a
// prepared INSERT. On any error the transaction is rolled back, so a
// primary-key collision leaves the table unchanged.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = sqliteddl.QuoteIdent(c)
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		sqliteddl.QuoteFQN(table),
		strings.Join(quoted, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: CopyFrom: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return 0, classify(fmt.Errorf("sqlite: insert into %s: %w", table, err))
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, classify(fmt.Errorf("sqlite: commit: %w", err))
	}
	return inserted, nil
}

// ExistingKeys returns which of keys are present in table.keyColumn.
func (r *Repository) ExistingKeys(ctx context.Context, table, keyColumn string, keys []any) ([]string, error) {
	var out []string
	err := storage.Chunks(len(keys), maxKeyParams, func(lo, hi int) error {
		q := fmt.Sprintf(
			"SELECT %s FROM %s WHERE %s IN (%s)",
			sqliteddl.QuoteIdent(keyColumn),
			sqliteddl.QuoteFQN(table),
			sqliteddl.QuoteIdent(keyColumn),
			strings.TrimSuffix(strings.Repeat("?, ", hi-lo), ", "),
		)
		rows, err := r.db.QueryContext(ctx, q, keys[lo:hi]...)
		if err != nil {
			return fmt.Errorf("sqlite: query keys: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var v any
			if err := rows.Scan(&v); err != nil {
				return fmt.Errorf("sqlite: scan key: %w", err)
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
	q := "SELECT COUNT(*) FROM " + sqliteddl.QuoteFQN(table)
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count %s: %w", table, err)
	}
	return n, nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}
