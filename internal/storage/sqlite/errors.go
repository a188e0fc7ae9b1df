package sqlite

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"arxivdb/internal/storage"
)

// classify marks primary-key collisions with storage.ErrPrimaryKeyViolation.
// The driver runs with extended result codes, so a PK collision surfaces as
// SQLITE_CONSTRAINT_PRIMARYKEY rather than the generic SQLITE_CONSTRAINT.
func classify(err error) error {
	if isPrimaryKeyViolation(err) {
		return storage.PrimaryKeyError(err)
	}
	return err
}

func isPrimaryKeyViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
