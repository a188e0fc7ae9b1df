package mysql

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"arxivdb/internal/storage"
)

// erDupEntry is ER_DUP_ENTRY: "Duplicate entry '%s' for key '%s'". The key
// name is PRIMARY (5.7) or <table>.PRIMARY (8.0) for primary keys.
const erDupEntry = 1062

func classify(err error) error {
	if isPrimaryKeyViolation(err) {
		return storage.PrimaryKeyError(err)
	}
	return err
}

func isPrimaryKeyViolation(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return myErr.Number == erDupEntry && strings.Contains(myErr.Message, "PRIMARY'")
}
