// Package file implements the local filesystem source.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"arxivdb/internal/datasource"
)

// Local opens one file from the local disk.
type Local struct{ path string }

// NewLocal returns a Local source bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the file for sequential reading.
//
// A canceled context is returned as-is without touching the filesystem. A
// missing path maps to datasource.ErrSourceNotFound; a directory or any other
// open failure maps to datasource.ErrSourceUnreadable. The underlying
// *fs.PathError stays reachable through errors.As.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, datasource.NotFound(l.path, err)
		}
		return nil, datasource.Unreadable(l.path, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, datasource.Unreadable(l.path, err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, datasource.Unreadable(l.path, fmt.Errorf("%s is a directory", l.path))
	}
	adviseSequential(f)
	return f, nil
}
