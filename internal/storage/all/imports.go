// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs each backend's init, which registers its factory and DDL
// bootstrapper with the storage package. After importing it the kinds
// "sqlite", "postgres", "mssql" and "mysql" are available to storage.New and
// storage.EnsureSchema.
//
// A binary that needs only a subset of backends can import those packages
// directly instead.
package all

import (
	_ "arxivdb/internal/storage/mssql"
	_ "arxivdb/internal/storage/mysql"
	_ "arxivdb/internal/storage/postgres"
	_ "arxivdb/internal/storage/sqlite"
)
