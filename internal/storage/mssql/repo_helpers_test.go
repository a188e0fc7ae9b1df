// Package mssql contains tests for helper utilities used by the MSSQL adapter.
package mssql

import (
	"errors"
	"fmt"
	"testing"

	mssql "github.com/microsoft/go-mssqldb"

	"arxivdb/internal/storage"
)

// TestMsIdent verifies that msIdent properly brackets SQL Server identifiers
// and escapes closing brackets to avoid syntax errors and injection issues.
func TestMsIdent(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"simple", "[simple]"},
		{"journal-ref", "[journal-ref]"},
		{"brack]et", "[brack]]et]"},
	}
	for _, tc := range cases {
		if got := msIdent(tc.in); got != tc.want {
			t.Fatalf("msIdent(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

// TestMsFQN verifies schema-qualified names are quoted per segment.
func TestMsFQN(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"table", "[table]"},
		{"dbo.table", "[dbo].[table]"},
	}
	for _, tc := range cases {
		if got := msFQN(tc.in); got != tc.want {
			t.Fatalf("msFQN(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestKeyQuery(t *testing.T) {
	got := keyQuery("dbo.authors", "id", 3)
	want := "SELECT [id] FROM [dbo].[authors] WHERE [id] IN (@p1, @p2, @p3)"
	if got != want {
		t.Fatalf("keyQuery = %q; want %q", got, want)
	}
}

// TestClassify separates primary-key collisions from unique-key and other
// server errors.
func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		wantPK bool
	}{
		{
			name: "primary key",
			err: mssql.Error{
				Number:  2627,
				Message: "Violation of PRIMARY KEY constraint 'PK__authors__3213E83F'. Cannot insert duplicate key in object 'dbo.authors'.",
			},
			wantPK: true,
		},
		{
			name: "wrapped primary key",
			err: fmt.Errorf("bulk finalize: %w", mssql.Error{
				Number:  2627,
				Message: "Violation of PRIMARY KEY constraint 'PK_documents'.",
			}),
			wantPK: true,
		},
		{
			name: "unique key",
			err:  mssql.Error{Number: 2627, Message: "Violation of UNIQUE KEY constraint 'UQ_doi'."},
		},
		{
			name: "foreign key",
			err:  mssql.Error{Number: 547, Message: "The INSERT statement conflicted with the FOREIGN KEY constraint"},
		},
		{
			name: "not a server error",
			err:  errors.New("i/o timeout"),
		},
	}
	for _, tc := range cases {
		if got := errors.Is(classify(tc.err), storage.ErrPrimaryKeyViolation); got != tc.wantPK {
			t.Errorf("%s: PK = %v; want %v", tc.name, got, tc.wantPK)
		}
	}
}
