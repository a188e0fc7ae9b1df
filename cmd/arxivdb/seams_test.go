package main

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"arxivdb/internal/config"
	"arxivdb/internal/pipeline"
	"arxivdb/internal/storage"
)

func zapNop() *zap.Logger { return zap.NewNop() }

// These tests swap package-level seams and therefore do not run in
// parallel.

func TestRunLoad_StorageOpenFailure(t *testing.T) {
	origSrc, origRepo := openSourceFn, newRepositoryFn
	t.Cleanup(func() { openSourceFn, newRepositoryFn = origSrc, origRepo })

	openSourceFn = func(context.Context, config.Pipeline) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(feed("a"))), nil
	}
	boom := errors.New("connection refused")
	newRepositoryFn = func(context.Context, config.Storage) (storage.Repository, error) {
		return nil, boom
	}

	p, err := config.Load("", map[string]any{"storage.db.dsn": "unused"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sum, err := runLoad(context.Background(), p, zapNop(), io.Discard)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v; want %v", err, boom)
	}
	if sum.State != pipeline.StateFailed {
		t.Fatalf("State = %v; want failed", sum.State)
	}
}

func TestRunLoad_CustomTableNames(t *testing.T) {
	origSrc := openSourceFn
	t.Cleanup(func() { openSourceFn = origSrc })

	openSourceFn = func(context.Context, config.Pipeline) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(feed("a", "b"))), nil
	}

	db := filepath.Join(t.TempDir(), "custom.db")
	p, err := config.Load("", map[string]any{
		"storage.db.dsn":              db,
		"storage.db.tables.documents": "papers",
		"storage.db.tables.authors":   "paper_authors",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sum, err := runLoad(context.Background(), p, zapNop(), io.Discard)
	if err != nil {
		t.Fatalf("runLoad: %v", err)
	}
	if sum.Documents.Written != 2 || sum.Authors.Written != 4 || sum.Versions.Written != 2 {
		t.Fatalf("summary = %+v", sum)
	}

	conn := openDB(t, db)
	for table, want := range map[string]int{"papers": 2, "paper_authors": 4, "versions": 2} {
		var n int
		if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil || n != want {
			t.Fatalf("%s = %d, %v; want %d", table, n, err, want)
		}
	}
}

func TestSetupMetrics_DisabledAndUnknown(t *testing.T) {
	for _, backend := range []string{"", "none", "graphite"} {
		p := config.Pipeline{Job: "j", Metrics: config.Metrics{Backend: backend}}
		setupMetrics(p, zapNop())()
	}
}
