// Package ddl provides the Postgres dialect for rendering the generic
// ddl.TableDef model: double-quoted identifiers and CREATE TABLE IF NOT EXISTS.
package ddl

import (
	"context"

	gddl "arxivdb/internal/ddl"
	"arxivdb/internal/schema"
	"arxivdb/internal/storage"
)

// Dialect is the Postgres rendering dialect.
var Dialect = gddl.Dialect{
	Name:       "postgres ddl",
	QuoteIdent: gddl.DoubleQuote,
	Wrap: func(fqn, body string) string {
		return "CREATE TABLE IF NOT EXISTS " + fqn + " (\n  " + body + "\n);"
	},
}

// BuildCreateTableSQL returns a Postgres CREATE TABLE IF NOT EXISTS statement
// for the given table definition.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.Render(t, Dialect)
}

// EnsureSchema creates the target tables if they do not exist, parents first.
func EnsureSchema(ctx context.Context, repo storage.Repository, tables schema.Set) error {
	return storage.ApplyTables(ctx, repo, tables, func(t schema.Table) (string, error) {
		return BuildCreateTableSQL(t.TableDef(MapType))
	})
}
