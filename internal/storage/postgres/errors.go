package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"arxivdb/internal/storage"
)

// uniqueViolation is SQLSTATE 23505.
const uniqueViolation = "23505"

func classify(err error) error {
	if isPrimaryKeyViolation(err) {
		return storage.PrimaryKeyError(err)
	}
	return err
}

// isPrimaryKeyViolation reports a unique violation on a table's primary key
// constraint. Postgres names those "<table>_pkey" unless told otherwise.
func isPrimaryKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && strings.HasSuffix(pgErr.ConstraintName, "_pkey")
}
