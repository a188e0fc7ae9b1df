package postgres

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"arxivdb/internal/storage"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		wantPK bool
	}{
		{
			name:   "pkey unique violation",
			err:    &pgconn.PgError{Code: "23505", ConstraintName: "authors_pkey"},
			wantPK: true,
		},
		{
			name:   "wrapped pkey violation",
			err:    fmt.Errorf("copy: %w", &pgconn.PgError{Code: "23505", ConstraintName: "documents_pkey"}),
			wantPK: true,
		},
		{
			name: "other unique index",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "documents_doi_key"},
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "authors_document_id_fkey"},
		},
		{
			name: "plain error",
			err:  errors.New("conn closed"),
		},
	}
	for _, tt := range tests {
		got := classify(tt.err)
		if errors.Is(got, storage.ErrPrimaryKeyViolation) != tt.wantPK {
			t.Errorf("%s: classify(%v) PK = %v, want %v", tt.name, tt.err, !tt.wantPK, tt.wantPK)
		}
		var pgErr *pgconn.PgError
		if _, isPg := tt.err.(*pgconn.PgError); isPg && !errors.As(got, &pgErr) {
			t.Errorf("%s: classified error lost *pgconn.PgError", tt.name)
		}
	}
}

func TestTypedKeys(t *testing.T) {
	t.Parallel()

	if got := typedKeys([]any{int64(1), int64(2)}); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Fatalf("typedKeys(ints) = %#v", got)
	}
	if got := typedKeys([]any{"0704.0001", "0704.0002"}); !reflect.DeepEqual(got, []string{"0704.0001", "0704.0002"}) {
		t.Fatalf("typedKeys(strings) = %#v", got)
	}
}

func TestSplitFQN(t *testing.T) {
	t.Parallel()

	got := splitFQN(" arxiv . documents ")
	if len(got) != 2 || got[0] != "arxiv" || got[1] != "documents" {
		t.Fatalf("splitFQN = %#v", got)
	}
}
