// Package ddl provides the MySQL dialect for rendering the generic
// ddl.TableDef model: backtick-quoted identifiers and
// CREATE TABLE IF NOT EXISTS.
package ddl

import (
	"context"
	"strings"

	gddl "arxivdb/internal/ddl"
	"arxivdb/internal/schema"
	"arxivdb/internal/storage"
)

// Dialect is the MySQL rendering dialect.
var Dialect = gddl.Dialect{
	Name:       "mysql ddl",
	QuoteIdent: QuoteIdent,
	Wrap: func(fqn, body string) string {
		return "CREATE TABLE IF NOT EXISTS " + fqn + " (\n  " + body + "\n);"
	},
}

// BuildCreateTableSQL returns a MySQL CREATE TABLE IF NOT EXISTS statement.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.Render(t, Dialect)
}

// EnsureSchema creates the target tables if they do not exist, parents first.
func EnsureSchema(ctx context.Context, repo storage.Repository, tables schema.Set) error {
	return storage.ApplyTables(ctx, repo, tables, func(t schema.Table) (string, error) {
		return BuildCreateTableSQL(t.TableDef(MapType))
	})
}

// QuoteIdent wraps id in backticks, doubling embedded backticks.
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// QuoteFQN quotes "db.table" as `db`.`table`.
func QuoteFQN(fqn string) string { return Dialect.FQN(fqn) }
