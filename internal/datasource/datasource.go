// Package datasource defines how the loader obtains its input stream and the
// errors every source kind reports when it cannot.
package datasource

import (
	"context"
	"errors"
	"io"
)

// Source opens the raw byte stream of one input. The caller closes it.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

var (
	// ErrSourceNotFound means the input does not exist (missing file,
	// HTTP 404, missing S3 key).
	ErrSourceNotFound = errors.New("source not found")

	// ErrSourceUnreadable means the input exists but cannot be read:
	// permissions, a directory, a failed request or a corrupt compressed
	// stream header.
	ErrSourceUnreadable = errors.New("source unreadable")
)

// SourceError ties one of the sentinel errors to the input it concerns.
type SourceError struct {
	Kind  error // ErrSourceNotFound or ErrSourceUnreadable
	Input string
	Err   error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return e.Kind.Error() + ": " + e.Input
	}
	return e.Kind.Error() + ": " + e.Input + ": " + e.Err.Error()
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound builds a SourceError of kind ErrSourceNotFound.
func NotFound(input string, err error) error {
	return &SourceError{Kind: ErrSourceNotFound, Input: input, Err: err}
}

// Unreadable builds a SourceError of kind ErrSourceUnreadable.
func Unreadable(input string, err error) error {
	return &SourceError{Kind: ErrSourceUnreadable, Input: input, Err: err}
}
