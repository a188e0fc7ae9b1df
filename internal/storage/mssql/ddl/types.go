// Package ddl contains MSSQL-specific helpers for generating DDL.
package ddl

import "strings"

// MapType maps a logical column kind into a SQL Server column type.
//
// "key" columns become NVARCHAR(64) because NVARCHAR(MAX) cannot be part of a
// primary key or index. Unknown or empty kinds fall back to NVARCHAR(MAX).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "bool", "boolean":
		return "BIT"
	case "date":
		return "DATE"
	case "timestamp", "datetime", "timestamptz":
		return "DATETIME2"
	case "key":
		return "NVARCHAR(64)"
	default:
		return "NVARCHAR(MAX)"
	}
}
