package pipeline

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// Progress receives one tick per loaded batch and a final tick when the run
// completes.
type Progress interface {
	Batch(s Summary)
	Done(s Summary)
}

type nopProgress struct{}

func (nopProgress) Batch(Summary) {}
func (nopProgress) Done(Summary)  {}

// NewProgress returns a spinner that redraws one status line when w is a
// terminal, and a reporter that logs one line per batch through log
// otherwise.
func NewProgress(w io.Writer, log *zap.Logger) Progress {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return &spinner{w: w}
	}
	return &logProgress{log: log}
}

var spinFrames = []rune{'|', '/', '-', '\\'}

type spinner struct {
	w     io.Writer
	frame int
}

func (s *spinner) Batch(sum Summary) {
	r := spinFrames[s.frame%len(spinFrames)]
	s.frame++
	fmt.Fprintf(s.w, "\r%c %s", r, statusLine(sum))
}

func (s *spinner) Done(sum Summary) {
	fmt.Fprintf(s.w, "\r%s %s\n", sum.State, statusLine(sum))
}

type logProgress struct {
	log *zap.Logger
}

func (p *logProgress) Batch(sum Summary) {
	if p.log == nil {
		return
	}
	p.log.Info("batch loaded",
		zap.Int("batch", sum.Batches),
		zap.Int64("records", sum.Records),
		zap.Int64("authors_written", sum.Authors.Written),
		zap.Int64("versions_written", sum.Versions.Written),
		zap.Duration("elapsed", sum.Elapsed),
	)
}

func (p *logProgress) Done(Summary) {}

func statusLine(s Summary) string {
	return fmt.Sprintf("batch %d: %d records, %d documents, %d authors, %d versions (%s)",
		s.Batches, s.Records, s.Documents.Written, s.Authors.Written, s.Versions.Written,
		s.Elapsed.Truncate(time.Millisecond))
}
