package mssql

import (
	"errors"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"

	"arxivdb/internal/storage"
)

// errDuplicateKey is "Violation of %ls constraint '%.*ls'. Cannot insert
// duplicate key in object '%.*ls'." It covers both PRIMARY KEY and UNIQUE
// KEY constraints, so the message is checked too.
const errDuplicateKey = 2627

func classify(err error) error {
	if isPrimaryKeyViolation(err) {
		return storage.PrimaryKeyError(err)
	}
	return err
}

func isPrimaryKeyViolation(err error) bool {
	var msErr mssql.Error
	if !errors.As(err, &msErr) {
		return false
	}
	return msErr.Number == errDuplicateKey && strings.Contains(msErr.Message, "PRIMARY KEY")
}
