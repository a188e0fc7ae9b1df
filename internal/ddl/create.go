// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render CREATE TABLE statements from that model.
//
// Render does the work; a Dialect supplies identifier quoting and the
// statement wrapper (IF NOT EXISTS, T-SQL guards and so on). Backend packages
// under internal/storage/<kind>/ddl declare their Dialect and type mapping.
//
// ColumnDef.Default is treated as raw SQL; the caller is responsible for
// safety and dialect correctness.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect captures the per-backend differences needed to render DDL.
type Dialect struct {
	// Name prefixes error messages, e.g. "sqlite ddl".
	Name string

	// QuoteIdent quotes one identifier segment. Nil emits names verbatim.
	QuoteIdent func(string) string

	// Wrap turns the quoted table name and the rendered column/constraint
	// body into the final statement. Nil renders a bare CREATE TABLE.
	Wrap func(fqn, body string) string
}

// Generic is the unquoted dialect: names are emitted as-is and no
// IF NOT EXISTS clause is added.
var Generic = Dialect{Name: "ddl"}

// BuildCreateTableSQL renders a generic CREATE TABLE statement from t.
//
//	CREATE TABLE <FQN> (
//	  <col1-def>,
//	  ...,
//	  [PRIMARY KEY (<pk-cols>)],
//	  [FOREIGN KEY (<cols>) REFERENCES <table> (<cols>)]
//	);
func BuildCreateTableSQL(t TableDef) (string, error) {
	return Render(t, Generic)
}

// Render builds a CREATE TABLE statement for t in dialect d.
//
// A column is rendered as
//
//	<Name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//
// Primary key columns are collected into one PRIMARY KEY clause after the
// column list, followed by one FOREIGN KEY clause per entry in t.ForeignKeys.
func Render(t TableDef, d Dialect) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s: table FQN must not be empty", d.Name)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s: at least one column is required", d.Name)
	}

	cols := make([]string, 0, len(t.Columns)+1+len(t.ForeignKeys))
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s: column with empty name in table %s", d.Name, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("%s: column %s missing SQLType", d.Name, name)
		}

		var sb strings.Builder
		sb.WriteString(d.ident(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)

		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}

		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}

		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, d.ident(name))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	for _, fk := range t.ForeignKeys {
		if len(fk.Columns) == 0 || len(fk.Columns) != len(fk.RefColumns) || strings.TrimSpace(fk.RefTable) == "" {
			return "", fmt.Errorf("%s: invalid foreign key on table %s", d.Name, fqn)
		}
		cols = append(cols, fmt.Sprintf(
			"FOREIGN KEY (%s) REFERENCES %s (%s)",
			strings.Join(d.idents(fk.Columns), ", "),
			d.FQN(fk.RefTable),
			strings.Join(d.idents(fk.RefColumns), ", "),
		))
	}

	q := d.FQN(fqn)
	if d.Wrap != nil {
		return d.Wrap(q, strings.Join(cols, ",\n  ")), nil
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", q, strings.Join(cols, ",\n  ")), nil
}

// Ident quotes a single identifier in dialect d.
func (d Dialect) Ident(id string) string { return d.ident(id) }

func (d Dialect) ident(id string) string {
	if d.QuoteIdent == nil {
		return id
	}
	return d.QuoteIdent(id)
}

func (d Dialect) idents(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = d.ident(strings.TrimSpace(id))
	}
	return out
}

// FQN quotes each dotted segment of a possibly schema-qualified name and
// drops empty segments:
//
//	"main.events" -> "main"."events"   (double-quote dialects)
//	" .a..b. "    -> "a"."b"
func (d Dialect) FQN(fqn string) string {
	if d.QuoteIdent == nil {
		return strings.TrimSpace(fqn)
	}
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, d.QuoteIdent(p))
	}
	return strings.Join(out, ".")
}

// DoubleQuote is the ANSI identifier quote used by SQLite and Postgres.
func DoubleQuote(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
