// Package mssql implements a Microsoft SQL Server repository using the
// go-mssqldb bulk copy API. Each CopyFrom is one bulk insert inside a
// transaction.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"arxivdb/internal/storage"
	msddl "arxivdb/internal/storage/mssql/ddl"
)

// maxKeyParams stays well under SQL Server's 2100 parameter limit.
const maxKeyParams = 1000

// Config holds MSSQL repository configuration.
type Config struct {
	DSN string
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

var _ storage.Repository = (*Repository)(nil)

// Close closes the connection pool.
func (r *Repository) Close() { _ = r.db.Close() }

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	closeFn := func() { _ = db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// CopyFrom bulk-inserts rows into table inside a transaction.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(table, mssql.BulkOptions{CheckConstraints: true}, columns...))
	if err != nil {
		rollback()
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i]...); err != nil {
			_ = stmt.Close()
			rollback()
			return 0, classify(fmt.Errorf("bulk row %d: %w", i, err))
		}
	}
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		rollback()
		return 0, classify(fmt.Errorf("bulk finalize %s: %w", table, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		rollback()
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, classify(fmt.Errorf("commit: %w", err))
	}
	return n, nil
}

// ExistingKeys probes table.keyColumn with IN (@p1, ...) lists.
func (r *Repository) ExistingKeys(ctx context.Context, table, keyColumn string, keys []any) ([]string, error) {
	var out []string
	err := storage.Chunks(len(keys), maxKeyParams, func(lo, hi int) error {
		rows, err := r.db.QueryContext(ctx, keyQuery(table, keyColumn, hi-lo), keys[lo:hi]...)
		if err != nil {
			return fmt.Errorf("query keys: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var v any
			if err := rows.Scan(&v); err != nil {
				return fmt.Errorf("scan key: %w", err)
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
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT_BIG(*) FROM "+msFQN(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// Exec executes a SQL statement against the pool.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// keyQuery builds SELECT [k] FROM [t] WHERE [k] IN (@p1, ..., @pn).
func keyQuery(table, keyColumn string, n int) string {
	params := make([]string, n)
	for i := range params {
		params[i] = fmt.Sprintf("@p%d", i+1)
	}
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s IN (%s)",
		msIdent(keyColumn), msFQN(table), msIdent(keyColumn), strings.Join(params, ", "),
	)
}

// msIdent safely quotes a SQL Server identifier using [brackets], escaping ].
func msIdent(id string) string { return msddl.QuoteIdent(id) }

// msFQN quotes a possibly schema-qualified name like "dbo.documents" to
// "[dbo].[documents]".
func msFQN(name string) string { return msddl.QuoteFQN(name) }
