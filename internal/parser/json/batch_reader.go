package json

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"arxivdb/internal/records"
)

// DefaultBatchSize is the number of records per batch when none is configured.
const DefaultBatchSize = 10000

// BatchReader groups decoded records into batches of at most size records.
// It is forward-only and not restartable; open a fresh source to start over.
type BatchReader struct {
	dec  *Decoder
	size int
	done bool
}

// NewBatchReader wraps r. size must be positive.
func NewBatchReader(r io.Reader, size int, opt Options) (*BatchReader, error) {
	if size <= 0 {
		return nil, fmt.Errorf("json: batch size must be > 0, got %d", size)
	}
	return &BatchReader{dec: NewDecoder(r, opt), size: size}, nil
}

// Next returns the next batch. The final batch may hold fewer than size
// records; after it Next returns io.EOF. A decode error ends the stream: the
// partially filled batch is discarded and every later call returns io.EOF.
func (b *BatchReader) Next() (records.Batch, error) {
	if b.done {
		return nil, io.EOF
	}

	batch := make(records.Batch, 0, b.size)
	for len(batch) < b.size {
		rec, err := b.dec.Next()
		if errors.Is(err, io.EOF) {
			b.done = true
			break
		}
		if err != nil {
			b.done = true
			return nil, err
		}
		batch = append(batch, rec)
	}

	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

// All exposes the reader as a range-over-func sequence. Iteration stops after
// the first error is yielded.
func (b *BatchReader) All() iter.Seq2[records.Batch, error] {
	return func(yield func(records.Batch, error) bool) {
		for {
			batch, err := b.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(batch, err) || err != nil {
				return
			}
		}
	}
}
