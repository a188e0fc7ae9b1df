package json

import (
	"errors"
	"fmt"

	"arxivdb/internal/datasource"
)

var errMissingID = errors.New(`missing or empty "id"`)

// MalformedRecordError reports an input line that is not a JSON object of the
// expected record shape.
type MalformedRecordError struct {
	Line int
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: %v", e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// ReadError reports an I/O failure while reading the source mid-stream. It
// matches datasource.ErrSourceUnreadable.
type ReadError struct {
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read source near line %d: %v", e.Line, e.Err)
}

func (e *ReadError) Unwrap() []error { return []error{datasource.ErrSourceUnreadable, e.Err} }
