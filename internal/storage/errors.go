package storage

import (
	"errors"
	"fmt"
)

// ErrPrimaryKeyViolation is wrapped by backend errors caused by an insert
// colliding with an existing primary key. The Loader recovers from it.
var ErrPrimaryKeyViolation = errors.New("primary key violation")

// StorageFaultError is any storage failure the Loader does not recover from.
type StorageFaultError struct {
	Table string
	Op    string
	Err   error
}

func (e *StorageFaultError) Error() string {
	return fmt.Sprintf("storage fault: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageFaultError) Unwrap() error { return e.Err }

// PrimaryKeyError marks err as a primary-key violation while keeping the
// driver error reachable through errors.As.
func PrimaryKeyError(err error) error {
	return fmt.Errorf("%w: %w", ErrPrimaryKeyViolation, err)
}
