package mssql

import (
	"context"
	"testing"

	"arxivdb/internal/storage"
)

// TestMSSQLStorageRegistrationUsesNewRepositoryHook verifies that the "mssql"
// storage backend registered in init() uses the newRepository hook and that
// the wrappedRepo correctly propagates configuration and close behavior.
func TestMSSQLStorageRegistrationUsesNewRepositoryHook(t *testing.T) {
	ctx := context.Background()

	origNewRepository := newRepository
	defer func() { newRepository = origNewRepository }()

	var (
		called   bool
		gotCfg   Config
		closed   bool
		fakeRepo = &Repository{}
	)

	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		called = true
		gotCfg = cfg
		return fakeRepo, func() { closed = true }, nil
	}

	cfg := storage.Config{Kind: "mssql", DSN: "sqlserver://example"}

	repo, err := storage.New(ctx, cfg)
	if err != nil {
		t.Fatalf("storage.New() error = %v, want nil", err)
	}
	if !called {
		t.Fatalf("newRepository hook was not called")
	}
	if gotCfg.DSN != cfg.DSN {
		t.Errorf("cfg.DSN = %q, want %q", gotCfg.DSN, cfg.DSN)
	}
	if w, ok := repo.(*wrappedRepo); !ok || w.Repository != fakeRepo {
		t.Fatalf("storage.New() = %T, want *wrappedRepo around the hook's repository", repo)
	}

	repo.Close()
	if !closed {
		t.Fatalf("Close() did not invoke closeFn")
	}
}
