package datasource

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Compression names a detected stream encoding.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// Decompress sniffs the first bytes of rc and, for gzip or zstd input,
// returns a reader over the decoded stream. Plain input is returned
// buffered but otherwise unchanged. Closing the result closes rc.
func Decompress(rc io.ReadCloser) (io.ReadCloser, Compression, error) {
	br := bufio.NewReaderSize(rc, 64<<10)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		_ = rc.Close()
		return nil, CompressionNone, fmt.Errorf("peek input: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = rc.Close()
			return nil, CompressionGzip, fmt.Errorf("gzip header: %w", err)
		}
		return &stackedCloser{Reader: zr, closers: []func() error{zr.Close, rc.Close}}, CompressionGzip, nil

	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			_ = rc.Close()
			return nil, CompressionZstd, fmt.Errorf("zstd header: %w", err)
		}
		closeZstd := func() error { zr.Close(); return nil }
		return &stackedCloser{Reader: zr, closers: []func() error{closeZstd, rc.Close}}, CompressionZstd, nil

	default:
		return &stackedCloser{Reader: br, closers: []func() error{rc.Close}}, CompressionNone, nil
	}
}

// stackedCloser closes decoder layers innermost-first and reports the first
// error.
type stackedCloser struct {
	io.Reader
	closers []func() error
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
