package schema

import (
	"reflect"
	"strings"
	"testing"
)

func TestNew_DefaultsAndOverrides(t *testing.T) {
	t.Parallel()

	s := Default()
	if s.Documents.Name != "documents" || s.Authors.Name != "authors" || s.Versions.Name != "versions" {
		t.Fatalf("default names = %q %q %q", s.Documents.Name, s.Authors.Name, s.Versions.Name)
	}

	s = New(Names{Documents: " arxiv.docs ", Versions: "v"})
	if s.Documents.Name != "arxiv.docs" || s.Authors.Name != "authors" || s.Versions.Name != "v" {
		t.Fatalf("override names = %q %q %q", s.Documents.Name, s.Authors.Name, s.Versions.Name)
	}
	if s.Authors.Parent != "arxiv.docs" || s.Versions.Parent != "arxiv.docs" {
		t.Fatalf("parents = %q %q; want arxiv.docs", s.Authors.Parent, s.Versions.Parent)
	}
}

func TestColumnOrder(t *testing.T) {
	t.Parallel()

	s := Default()
	want := []string{
		"id", "title", "submitter", "comments", "journal-ref", "doi",
		"report-no", "categories", "license", "abstract", "update_date",
	}
	if got := s.Documents.ColumnNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("documents columns = %v; want %v", got, want)
	}
	if got := s.Versions.ColumnNames(); !reflect.DeepEqual(got, []string{"id", "document_id", "version", "created"}) {
		t.Fatalf("versions columns = %v", got)
	}
	for _, tbl := range s.Tables() {
		if tbl.KeyIndex() != 0 {
			t.Fatalf("%s key index = %d; want 0", tbl.Name, tbl.KeyIndex())
		}
	}
}

func TestTableDef_ForeignKeyAndTypes(t *testing.T) {
	t.Parallel()

	def := Default().Authors.TableDef(strings.ToUpper)
	if len(def.ForeignKeys) != 1 || def.ForeignKeys[0].RefTable != "documents" {
		t.Fatalf("foreign keys = %+v", def.ForeignKeys)
	}
	if def.Columns[0].SQLType != "BIGINT" || !def.Columns[0].PrimaryKey {
		t.Fatalf("id column = %+v", def.Columns[0])
	}
	if docs := Default().Documents.TableDef(strings.ToUpper); len(docs.ForeignKeys) != 0 {
		t.Fatalf("documents has foreign keys: %+v", docs.ForeignKeys)
	}
}
