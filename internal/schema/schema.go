// Package schema describes the three target tables: documents, authors and
// versions. Column kinds are logical ("key", "text", "bigint", "timestamp");
// each storage backend maps them to concrete SQL types when rendering DDL.
package schema

import (
	"strings"

	"arxivdb/internal/ddl"
)

// Logical column kinds.
const (
	KindKey       = "key" // short indexed string (document ids)
	KindText      = "text"
	KindBigint    = "bigint"
	KindTimestamp = "timestamp"
)

// Default table names.
const (
	DefaultDocuments = "documents"
	DefaultAuthors   = "authors"
	DefaultVersions  = "versions"
)

// Column is one logical column.
type Column struct {
	Name       string
	Kind       string
	Nullable   bool
	PrimaryKey bool
}

// Table is one target table. Key is the single primary-key column used for
// duplicate detection; Parent, when set, is the table whose "id" the
// document_id column references.
type Table struct {
	Name    string
	Key     string
	Columns []Column
	Parent  string
}

// ColumnNames returns the column names in insert order.
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// KeyIndex is the position of the key column in ColumnNames, or -1.
func (t Table) KeyIndex() int {
	for i, c := range t.Columns {
		if c.Name == t.Key {
			return i
		}
	}
	return -1
}

// TableDef renders t into the generic DDL model using mapType to resolve
// logical kinds into SQL types.
func (t Table) TableDef(mapType func(kind string) string) ddl.TableDef {
	cols := make([]ddl.ColumnDef, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = ddl.ColumnDef{
			Name:       c.Name,
			SQLType:    mapType(c.Kind),
			Nullable:   c.Nullable,
			PrimaryKey: c.PrimaryKey,
		}
	}
	def := ddl.TableDef{FQN: t.Name, Columns: cols}
	if t.Parent != "" {
		def.ForeignKeys = []ddl.ForeignKey{{
			Columns:    []string{"document_id"},
			RefTable:   t.Parent,
			RefColumns: []string{"id"},
		}}
	}
	return def
}

// Names overrides table names; empty fields fall back to the defaults.
type Names struct {
	Documents string `json:"documents,omitempty" mapstructure:"documents"`
	Authors   string `json:"authors,omitempty" mapstructure:"authors"`
	Versions  string `json:"versions,omitempty" mapstructure:"versions"`
}

// Set is the full target schema.
type Set struct {
	Documents Table
	Authors   Table
	Versions  Table
}

// New builds the schema using the given table names.
func New(n Names) Set {
	docs := orDefault(n.Documents, DefaultDocuments)
	return Set{
		Documents: Table{
			Name: docs,
			Key:  "id",
			Columns: []Column{
				{Name: "id", Kind: KindKey, PrimaryKey: true},
				{Name: "title", Kind: KindText, Nullable: true},
				{Name: "submitter", Kind: KindText, Nullable: true},
				{Name: "comments", Kind: KindText, Nullable: true},
				{Name: "journal-ref", Kind: KindText, Nullable: true},
				{Name: "doi", Kind: KindText, Nullable: true},
				{Name: "report-no", Kind: KindText, Nullable: true},
				{Name: "categories", Kind: KindText, Nullable: true},
				{Name: "license", Kind: KindText, Nullable: true},
				{Name: "abstract", Kind: KindText, Nullable: true},
				{Name: "update_date", Kind: KindTimestamp},
			},
		},
		Authors: Table{
			Name:   orDefault(n.Authors, DefaultAuthors),
			Key:    "id",
			Parent: docs,
			Columns: []Column{
				{Name: "id", Kind: KindBigint, PrimaryKey: true},
				{Name: "document_id", Kind: KindKey},
				{Name: "author", Kind: KindText},
			},
		},
		Versions: Table{
			Name:   orDefault(n.Versions, DefaultVersions),
			Key:    "id",
			Parent: docs,
			Columns: []Column{
				{Name: "id", Kind: KindBigint, PrimaryKey: true},
				{Name: "document_id", Kind: KindKey},
				{Name: "version", Kind: KindText},
				{Name: "created", Kind: KindTimestamp},
			},
		},
	}
}

// Default is New with the default table names.
func Default() Set { return New(Names{}) }

// Tables returns the tables in creation order (parents first).
func (s Set) Tables() []Table {
	return []Table{s.Documents, s.Authors, s.Versions}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
