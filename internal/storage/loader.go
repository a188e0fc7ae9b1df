package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"arxivdb/internal/schema"
)

// Loader appends rows to a table and absorbs primary-key collisions.
//
// A write first tries every row. If the backend reports a primary-key
// violation the Loader asks which candidate keys already exist, drops those
// rows plus any later row repeating a key seen earlier in the same call, and
// retries exactly once. Any other error, or a collision on the retry, is a
// *StorageFaultError.
type Loader struct {
	repo Repository
	log  *zap.Logger
}

// NewLoader returns a Loader writing through repo. A nil logger is replaced
// by zap.NewNop().
func NewLoader(repo Repository, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{repo: repo, log: log}
}

// Write appends rows to t. Each row must be aligned with t.ColumnNames().
func (l *Loader) Write(ctx context.Context, t schema.Table, rows [][]any) (WriteResult, error) {
	if len(rows) == 0 {
		return AllWritten(0), nil
	}
	idx := t.KeyIndex()
	if idx < 0 {
		return WriteResult{}, &StorageFaultError{Table: t.Name, Op: "insert", Err: fmt.Errorf("key column %q not in columns", t.Key)}
	}
	cols := t.ColumnNames()

	start := time.Now()
	n, err := l.repo.CopyFrom(ctx, t.Name, cols, rows)
	if err == nil {
		l.log.Debug("rows written",
			zap.String("table", t.Name),
			zap.Int64("written", n),
			zap.Duration("took", time.Since(start)),
		)
		return AllWritten(n), nil
	}
	if !errors.Is(err, ErrPrimaryKeyViolation) {
		return WriteResult{}, &StorageFaultError{Table: t.Name, Op: "insert", Err: err}
	}

	keep, skipped, err := l.excludeExisting(ctx, t, idx, rows)
	if err != nil {
		return WriteResult{}, err
	}
	l.log.Info("primary key collision, retrying without existing keys",
		zap.String("table", t.Name),
		zap.Int("rows", len(rows)),
		zap.Int("skipped", len(skipped)),
	)
	if len(keep) == 0 {
		return PartialWritten(0, skipped), nil
	}

	n, err = l.repo.CopyFrom(ctx, t.Name, cols, keep)
	if err != nil {
		return WriteResult{}, &StorageFaultError{Table: t.Name, Op: "retry insert", Err: err}
	}
	return PartialWritten(n, skipped), nil
}

// excludeExisting splits rows into those to retry and the keys to skip.
// The first occurrence of a key within rows wins when the key is not stored.
func (l *Loader) excludeExisting(ctx context.Context, t schema.Table, idx int, rows [][]any) ([][]any, []string, error) {
	seen := NewKeySet(len(rows))
	candidates := make([]any, 0, len(rows))
	for _, r := range rows {
		if seen.Add(KeyString(r[idx])) {
			candidates = append(candidates, r[idx])
		}
	}

	existing, err := l.repo.ExistingKeys(ctx, t.Name, t.Key, candidates)
	if err != nil {
		return nil, nil, &StorageFaultError{Table: t.Name, Op: "query existing keys", Err: err}
	}

	taken := NewKeySet(len(existing) + len(rows))
	for _, k := range existing {
		taken.Add(k)
	}

	keep := make([][]any, 0, len(rows))
	var skipped []string
	for _, r := range rows {
		k := KeyString(r[idx])
		if !taken.Add(k) {
			skipped = append(skipped, k)
			continue
		}
		keep = append(keep, r)
	}
	return keep, skipped, nil
}
