// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import "strings"

// MapType maps a logical column kind into a SQLite column type.
//
// SQLite is dynamically typed, so this prefers canonical affinities:
//   - integer-ish -> INTEGER
//   - key, text   -> TEXT
//   - timestamps  -> TEXT (the driver writes ISO-8601 strings)
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "bool", "boolean":
		return "INTEGER" // 0/1
	case "float", "double", "real":
		return "REAL"
	default:
		return "TEXT"
	}
}
