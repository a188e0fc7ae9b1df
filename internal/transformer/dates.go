package transformer

import (
	"errors"
	"fmt"
	"time"
)

const (
	// UpdateDateLayout is the only accepted form of a record's update_date.
	UpdateDateLayout = "2006-01-02"

	// VersionCreatedLayout is the only accepted form of versions[].created,
	// e.g. "Mon, 2 Apr 2007 19:18:42 GMT".
	VersionCreatedLayout = "Mon, 2 Jan 2006 15:04:05 MST"
)

// errZone rejects zone abbreviations time.Parse would silently read as UTC.
var errZone = errors.New("time zone must be GMT or UTC")

// DateParseError reports a date value that does not match its exact layout.
type DateParseError struct {
	DocumentID string
	Field      string
	Value      string
	Layout     string
	Err        error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("document %s: %s %q does not match layout %q", e.DocumentID, e.Field, e.Value, e.Layout)
}

func (e *DateParseError) Unwrap() error { return e.Err }

func parseExact(docID, field, layout, value string) (time.Time, error) {
	t, err := time.Parse(layout, value)
	if err == nil {
		if name, off := t.Zone(); off != 0 || (name != "UTC" && name != "GMT") {
			err = errZone
		}
	}
	if err != nil {
		return time.Time{}, &DateParseError{
			DocumentID: docID,
			Field:      field,
			Value:      value,
			Layout:     layout,
			Err:        err,
		}
	}
	return t.UTC(), nil
}
