package ddl

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - SQLType: target SQL type (e.g., TEXT, BIGINT, TIMESTAMPTZ)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., 'anon', CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// ForeignKey is a single-table reference rendered as a table constraint:
//
//	FOREIGN KEY (<Columns>) REFERENCES <RefTable> (<RefColumns>)
type ForeignKey struct {
	Columns    []string
	RefTable   string
	RefColumns []string
}

// TableDef holds the fully-qualified table name (FQN), an ordered list of
// columns and any foreign keys. The FQN is expected in dotted form (e.g.,
// "schema.table") and will be quoted by dialect renderers as needed.
type TableDef struct {
	FQN         string
	Columns     []ColumnDef
	ForeignKeys []ForeignKey
}
