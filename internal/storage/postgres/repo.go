// Package postgres implements a Postgres repository using pgx v5. Rows are
// loaded with COPY inside a transaction, so a failed COPY leaves the target
// table untouched.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"arxivdb/internal/storage"
	pgddl "arxivdb/internal/storage/postgres/ddl"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

var _ storage.Repository = (*Repository)(nil)

// Close closes the pool. It is safe to call more than once.
func (r *Repository) Close() { r.pool.Close() }

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres ping: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool}, closeFn, nil
}

// CopyFrom streams rows into table with COPY in a transaction.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := tx.CopyFrom(ctx, splitFQN(table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, classify(fmt.Errorf("postgres: copy into %s: %w", table, err))
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, classify(fmt.Errorf("postgres: commit: %w", err))
	}
	return n, nil
}

// ExistingKeys probes table.keyColumn with a single = ANY($1) query.
func (r *Repository) ExistingKeys(ctx context.Context, table, keyColumn string, keys []any) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = ANY($1)",
		pgIdent(keyColumn), pgFQN(table), pgIdent(keyColumn),
	)
	rows, err := r.pool.Query(ctx, q, typedKeys(keys))
	if err != nil {
		return nil, fmt.Errorf("postgres: query keys: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("postgres: scan key: %w", err)
		}
		out = append(out, storage.KeyString(v))
	}
	return out, rows.Err()
}

// Count returns the number of rows in table.
func (r *Repository) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgFQN(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count %s: %w", table, err)
	}
	return n, nil
}

// Exec implements storage.Repository.Exec for Postgres.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return err
}

// typedKeys converts keys into a homogeneous slice pgx can encode as an
// array parameter: []int64 when every key is an int64, []string otherwise.
func typedKeys(keys []any) any {
	ints := make([]int64, 0, len(keys))
	for _, k := range keys {
		v, ok := k.(int64)
		if !ok {
			strs := make([]string, len(keys))
			for i, k := range keys {
				strs[i] = storage.KeyString(k)
			}
			return strs
		}
		ints = append(ints, v)
	}
	return ints
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			id = append(id, p)
		}
	}
	return id
}

func pgIdent(id string) string { return pgddl.Dialect.Ident(id) }

func pgFQN(name string) string { return pgddl.Dialect.FQN(name) }
