// Package ddl provides the SQL Server dialect for rendering the generic
// ddl.TableDef model.
//
// The dialect:
//   - Uses SQL Server-style identifier quoting: [schema].[table], [col].
//   - Wraps CREATE TABLE in an IF OBJECT_ID(...) IS NULL guard since T-SQL
//     does not support CREATE TABLE IF NOT EXISTS.
//   - Renders PRIMARY KEY and FOREIGN KEY constraints as separate clauses.
package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "arxivdb/internal/ddl"
	"arxivdb/internal/schema"
	"arxivdb/internal/storage"
)

// Dialect is the SQL Server rendering dialect.
var Dialect = gddl.Dialect{
	Name:       "mssql ddl",
	QuoteIdent: quoteIdent,
	Wrap: func(fqn, body string) string {
		// Indent the inner CREATE TABLE for readability.
		return fmt.Sprintf(
			"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
			fqn,
			fqn,
			strings.ReplaceAll(body, "\n  ", "\n    "),
		)
	},
}

// BuildCreateTableSQL returns a T-SQL script that creates the table if it
// does not already exist:
//
//	IF OBJECT_ID(N'[dbo].[authors]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [dbo].[authors] (
//	    [id] BIGINT NOT NULL,
//	    ...
//	    PRIMARY KEY ([id]),
//	    FOREIGN KEY ([document_id]) REFERENCES [dbo].[documents] ([id])
//	  );
//	END;
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.Render(t, Dialect)
}

// EnsureSchema creates the target tables if they do not exist, parents first.
func EnsureSchema(ctx context.Context, repo storage.Repository, tables schema.Set) error {
	return storage.ApplyTables(ctx, repo, tables, func(t schema.Table) (string, error) {
		return BuildCreateTableSQL(t.TableDef(MapType))
	})
}

// quoteIdent quotes a single identifier segment for SQL Server using
// bracket syntax, escaping any closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func quoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// QuoteIdent is quoteIdent for DML builders outside this package.
func QuoteIdent(id string) string { return quoteIdent(id) }

// QuoteFQN quotes a possibly schema-qualified table name, e.g.:
//
//	"dbo.Users" -> [dbo].[Users]
//	"Users"     -> [Users]
func QuoteFQN(fqn string) string { return Dialect.FQN(fqn) }
