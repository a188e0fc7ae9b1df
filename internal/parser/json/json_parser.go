// Package json decodes the line-delimited arXiv metadata feed into typed
// records.Record values.
//
// It is deliberately strict:
//
//   - Exactly one JSON object per line:
//     {"id":"0704.0001","title":"...", ...}
//     {"id":"0704.0002","title":"...", ...}
//   - Blank (whitespace-only) lines are skipped.
//   - Any line that is not an object of the expected shape, or that lacks a
//     non-empty "id", is a MalformedRecordError. There is no skip-and-continue
//     mode; the caller decides whether to abort.
package json

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"arxivdb/internal/config"
	"arxivdb/internal/records"
)

// defaultMaxLineBytes bounds a single line. arXiv abstracts are a few KB; the
// limit only guards against a non-NDJSON file being fed in by mistake.
const defaultMaxLineBytes = 16 << 20

// Options mirrors the parser.options bag from the pipeline config.
//
//   - "max_line_bytes" (int): upper bound on one input line.
type Options struct {
	MaxLineBytes int
}

// FromConfigOptions constructs JSON Options from a generic config.Options map.
func FromConfigOptions(o config.Options) Options {
	return Options{
		MaxLineBytes: o.Int("max_line_bytes", defaultMaxLineBytes),
	}
}

// Decoder reads one records.Record per input line.
type Decoder struct {
	br   *bufio.Reader
	opt  Options
	line int
}

// NewDecoder constructs a Decoder from an io.Reader and JSON Options.
func NewDecoder(r io.Reader, opt Options) *Decoder {
	if opt.MaxLineBytes <= 0 {
		opt.MaxLineBytes = defaultMaxLineBytes
	}
	return &Decoder{
		br:  bufio.NewReaderSize(r, 1<<20),
		opt: opt,
	}
}

// Line returns the number of the last line consumed (1-based).
func (d *Decoder) Line() int { return d.line }

// Next reads the next non-blank line and decodes it into a records.Record.
// io.EOF is returned when the stream is exhausted.
func (d *Decoder) Next() (records.Record, error) {
	for {
		raw, err := d.readLine()
		if err != nil {
			return records.Record{}, err
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		return decodeRecord(raw, d.line)
	}
}

// readLine returns the next line without its terminator. A final line with
// no trailing newline is returned as-is; io.EOF only once nothing is left.
func (d *Decoder) readLine() ([]byte, error) {
	var buf []byte
	for {
		chunk, isPrefix, err := d.br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				d.line++
				return buf, nil
			}
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, &ReadError{Line: d.line + 1, Err: err}
		}
		buf = append(buf, chunk...)
		if len(buf) > d.opt.MaxLineBytes {
			d.line++
			return nil, &MalformedRecordError{
				Line: d.line,
				Err:  fmt.Errorf("line exceeds %d bytes", d.opt.MaxLineBytes),
			}
		}
		if !isPrefix {
			d.line++
			return buf, nil
		}
	}
}

func decodeRecord(raw []byte, line int) (records.Record, error) {
	if raw[0] != '{' {
		return records.Record{}, &MalformedRecordError{
			Line: line,
			Err:  fmt.Errorf("expected a JSON object, got %q", firstToken(raw)),
		}
	}

	var rec records.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return records.Record{}, &MalformedRecordError{Line: line, Err: err}
	}
	if rec.ID == "" {
		return records.Record{}, &MalformedRecordError{Line: line, Err: errMissingID}
	}
	rec.Line = line
	return rec, nil
}

func firstToken(raw []byte) string {
	const max = 16
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
