// Package ddl provides the SQLite dialect for rendering the generic
// ddl.TableDef model.
//
// The dialect:
//   - Uses simple double-quoted identifiers: "table", "col".
//   - Emits CREATE TABLE IF NOT EXISTS.
//   - Renders PRIMARY KEY and FOREIGN KEY as table constraints.
package ddl

import (
	"context"

	gddl "arxivdb/internal/ddl"
	"arxivdb/internal/schema"
	"arxivdb/internal/storage"
)

// Dialect is the SQLite rendering dialect.
var Dialect = gddl.Dialect{
	Name:       "sqlite ddl",
	QuoteIdent: gddl.DoubleQuote,
	Wrap: func(fqn, body string) string {
		return "CREATE TABLE IF NOT EXISTS " + fqn + " (\n  " + body + "\n);"
	},
}

// BuildCreateTableSQL returns a SQLite CREATE TABLE statement:
//
//	CREATE TABLE IF NOT EXISTS "authors" (
//	  "id" INTEGER NOT NULL,
//	  ...,
//	  PRIMARY KEY ("id"),
//	  FOREIGN KEY ("document_id") REFERENCES "documents" ("id")
//	);
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.Render(t, Dialect)
}

// EnsureSchema creates all schema tables if missing.
func EnsureSchema(ctx context.Context, repo storage.Repository, tables schema.Set) error {
	return storage.ApplyTables(ctx, repo, tables, func(t schema.Table) (string, error) {
		return BuildCreateTableSQL(t.TableDef(MapType))
	})
}

// QuoteIdent quotes one identifier segment, escaping embedded quotes.
func QuoteIdent(id string) string { return Dialect.Ident(id) }

// QuoteFQN quotes each segment of a possibly dotted table name.
func QuoteFQN(fqn string) string { return Dialect.FQN(fqn) }
