package storage

import (
	"context"
	"fmt"
	"sync"

	"arxivdb/internal/schema"
)

// DDLBootstrapper renders and applies CREATE TABLE statements for every
// table in the schema, idempotently, in the backend's dialect.
type DDLBootstrapper func(ctx context.Context, repo Repository, tables schema.Set) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the bootstrapper for a storage kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureSchema creates the documents, authors and versions tables for kind
// if they do not exist yet.
func EnsureSchema(ctx context.Context, kind string, repo Repository, tables schema.Set) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	if err := fn(ctx, repo, tables); err != nil {
		return &StorageFaultError{Table: tables.Documents.Name, Op: "ensure schema", Err: err}
	}
	return nil
}

// ApplyTables is the common bootstrapper body: render each table with
// build and run it through repo.Exec, parents first.
func ApplyTables(ctx context.Context, repo Repository, tables schema.Set, build func(schema.Table) (string, error)) error {
	for _, t := range tables.Tables() {
		stmt, err := build(t)
		if err != nil {
			return fmt.Errorf("render %s: %w", t.Name, err)
		}
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", t.Name, err)
		}
	}
	return nil
}
