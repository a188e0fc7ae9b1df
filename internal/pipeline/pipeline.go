// Package pipeline drives a load run: it folds the batch sequence through
// the normalizer and the loader while threading the synthetic-key offsets
// from one batch to the next.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.uber.org/zap"

	"arxivdb/internal/metrics"
	"arxivdb/internal/records"
	"arxivdb/internal/schema"
	"arxivdb/internal/storage"
	"arxivdb/internal/transformer"
)

// Offsets is the fold accumulator: the next synthetic id for each child
// table. It only ever grows, by the number of ids each batch consumed.
type Offsets struct {
	Authors  int64
	Versions int64
}

// Writer persists rows for one table. *storage.Loader implements it.
type Writer interface {
	Write(ctx context.Context, t schema.Table, rows [][]any) (storage.WriteResult, error)
}

// State is the lifecycle of a run.
type State int

const (
	StateProcessing State = iota
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "processing"
	}
}

// TableCounts tallies one table across a run.
type TableCounts struct {
	Written int64
	Skipped int64
}

func (c *TableCounts) add(r storage.WriteResult) {
	c.Written += r.Written
	c.Skipped += int64(len(r.Skipped))
}

// Summary describes a run so far. After Run returns it is final.
type Summary struct {
	State     State
	Batches   int
	Records   int64
	Documents TableCounts
	Authors   TableCounts
	Versions  TableCounts
	Offsets   Offsets
	Elapsed   time.Duration
}

// BatchResult is the outcome of one fold step.
type BatchResult struct {
	Records   int
	Documents storage.WriteResult
	Authors   storage.WriteResult
	Versions  storage.WriteResult
}

// Config wires a Driver.
type Config struct {
	Job        string
	Tables     schema.Set
	Normalizer *transformer.Normalizer // nil reshapes without text cleanup
	Writer     Writer
	Logger     *zap.Logger
	Progress   Progress // nil disables progress output
}

// Driver runs batches strictly one after another; it is not safe for
// concurrent use.
type Driver struct {
	job      string
	tables   schema.Set
	norm     *transformer.Normalizer
	writer   Writer
	log      *zap.Logger
	progress Progress
	now      func() time.Time
}

// New builds a Driver from cfg.
func New(cfg Config) *Driver {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	progress := cfg.Progress
	if progress == nil {
		progress = nopProgress{}
	}
	return &Driver{
		job:      cfg.Job,
		tables:   cfg.Tables,
		norm:     cfg.Normalizer,
		writer:   cfg.Writer,
		log:      log,
		progress: progress,
		now:      time.Now,
	}
}

// Run consumes batches until the sequence ends or the first error, starting
// from zero offsets. Batches written before a failure stay written. The
// returned Summary is populated in both cases.
func (d *Driver) Run(ctx context.Context, batches iter.Seq2[records.Batch, error]) (Summary, error) {
	start := d.now()
	sum := Summary{State: StateProcessing}
	var acc Offsets

	fail := func(err error) (Summary, error) {
		sum.State = StateFailed
		sum.Offsets = acc
		sum.Elapsed = d.now().Sub(start)
		d.progress.Done(sum)
		d.log.Error("load failed",
			zap.Int("batches", sum.Batches),
			zap.Int64("records", sum.Records),
			zap.Error(err),
		)
		return sum, err
	}

	readStart := d.now()
	for batch, err := range batches {
		metrics.RecordStep(d.job, "read", err, d.now().Sub(readStart))
		if err != nil {
			return fail(fmt.Errorf("read batch %d: %w", sum.Batches+1, err))
		}
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		next, res, err := d.Step(ctx, acc, batch)
		if err != nil {
			return fail(fmt.Errorf("batch %d: %w", sum.Batches+1, err))
		}
		acc = next

		sum.Batches++
		sum.Records += int64(res.Records)
		sum.Documents.add(res.Documents)
		sum.Authors.add(res.Authors)
		sum.Versions.add(res.Versions)
		sum.Offsets = acc
		sum.Elapsed = d.now().Sub(start)
		metrics.RecordBatches(d.job, 1)

		d.log.Debug("batch loaded",
			zap.Int("batch", sum.Batches),
			zap.Int("records", res.Records),
			zap.Int64("authors_offset", acc.Authors),
			zap.Int64("versions_offset", acc.Versions),
		)
		d.progress.Batch(sum)
		readStart = d.now()
	}

	sum.State = StateDone
	sum.Offsets = acc
	sum.Elapsed = d.now().Sub(start)
	d.progress.Done(sum)
	d.log.Info("load complete",
		zap.Int("batches", sum.Batches),
		zap.Int64("records", sum.Records),
		zap.Int64("documents_written", sum.Documents.Written),
		zap.Int64("documents_skipped", sum.Documents.Skipped),
		zap.Int64("authors_written", sum.Authors.Written),
		zap.Int64("authors_skipped", sum.Authors.Skipped),
		zap.Int64("versions_written", sum.Versions.Written),
		zap.Int64("versions_skipped", sum.Versions.Skipped),
		zap.Duration("elapsed", sum.Elapsed),
	)
	return sum, nil
}

// Step processes one batch against acc and returns the advanced offsets.
// The three row sets are derived before anything is written; documents go
// first so child rows always find their parent. Each child offset advances
// by the ids the batch consumed, whether or not every row was persisted, so
// a reload of a grown feed assigns fresh ids to the records it appends.
func (d *Driver) Step(ctx context.Context, acc Offsets, batch records.Batch) (Offsets, BatchResult, error) {
	res := BatchResult{Records: len(batch)}

	t0 := d.now()
	authors := d.norm.Authors(batch, acc.Authors)
	versions, err := d.norm.Versions(batch, acc.Versions)
	var docs transformer.DocumentRows
	if err == nil {
		docs, err = d.norm.Documents(batch)
	}
	metrics.RecordStep(d.job, "normalize", err, d.now().Sub(t0))
	if err != nil {
		return acc, res, err
	}

	if res.Documents, err = d.write(ctx, d.tables.Documents, docs.Values()); err != nil {
		return acc, res, err
	}
	if res.Authors, err = d.write(ctx, d.tables.Authors, authors.Values()); err != nil {
		return acc, res, err
	}
	acc.Authors += int64(len(authors))

	if res.Versions, err = d.write(ctx, d.tables.Versions, versions.Values()); err != nil {
		return acc, res, err
	}
	acc.Versions += int64(len(versions))

	return acc, res, nil
}

func (d *Driver) write(ctx context.Context, t schema.Table, rows [][]any) (storage.WriteResult, error) {
	if d.writer == nil {
		return storage.WriteResult{}, errors.New("pipeline: no writer configured")
	}
	t0 := d.now()
	res, err := d.writer.Write(ctx, t, rows)
	metrics.RecordStep(d.job, "write_"+t.Name, err, d.now().Sub(t0))
	if err != nil {
		return res, err
	}
	metrics.RecordRows(d.job, t.Name, metrics.KindWritten, res.Written)
	metrics.RecordRows(d.job, t.Name, metrics.KindSkipped, int64(len(res.Skipped)))
	if res.Outcome == storage.OutcomePartialWritten {
		d.log.Info("duplicate keys skipped",
			zap.String("table", t.Name),
			zap.Int("skipped", len(res.Skipped)),
			zap.Int64("written", res.Written),
		)
	}
	return res, nil
}
