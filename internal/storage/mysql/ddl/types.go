// Package ddl contains MySQL-specific helpers for generating DDL.
package ddl

import "strings"

// MapType maps a logical column kind into a MySQL column type. TEXT columns
// cannot be primary keys without a prefix length, so "key" maps to
// VARCHAR(64).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "bool", "boolean":
		return "TINYINT(1)"
	case "date":
		return "DATE"
	case "timestamp", "datetime", "timestamptz":
		return "DATETIME(6)"
	case "key":
		return "VARCHAR(64)"
	default:
		return "TEXT"
	}
}
