// Package storage contains the storage-agnostic contracts used by the loader:
// the Repository interface each backend implements, the backend registry,
// schema bootstrap and the duplicate-safe Loader.
package storage

import "context"

// Repository is the minimal surface a backend provides. Every method takes
// the target table name so one connection serves all three tables.
type Repository interface {
	// CopyFrom appends rows (aligned to columns) to table in a single
	// transaction. A primary-key collision must leave nothing written and
	// return an error matching ErrPrimaryKeyViolation.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// ExistingKeys returns the subset of keys already present in
	// table.keyColumn, in canonical KeyString form.
	ExistingKeys(ctx context.Context, table, keyColumn string, keys []any) ([]string, error)

	// Count returns the number of rows in table.
	Count(ctx context.Context, table string) (int64, error)

	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind string // "sqlite", "postgres", "mssql", "mysql"
	DSN  string
}
