package transformer

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"arxivdb/internal/records"
)

func strp(s string) *string { return &s }

func sampleBatch() records.Batch {
	return records.Batch{
		{
			ID:         "0704.0001",
			Title:      strp("Calculation of prompt diphoton production"),
			JournalRef: strp("Phys.Rev.D76:013009,2007"),
			UpdateDate: "2008-11-13",
			AuthorsParsed: [][]string{
				{"Doe", "J.", "A"},
				{"Smith", "B."},
			},
			Versions: []records.Version{
				{Version: "v1", Created: "Mon, 2 Apr 2007 19:18:42 GMT"},
				{Version: "v2", Created: "Tue, 24 Jul 2007 20:10:27 GMT"},
			},
		},
		{
			ID:            "0704.0002",
			UpdateDate:    "2008-12-13",
			AuthorsParsed: [][]string{{"Streinu", "Ileana", ""}},
			Versions: []records.Version{
				{Version: "v1", Created: "Sat, 31 Mar 2007 02:26:18 GMT"},
			},
		},
	}
}

func TestToAuthors_JoinsComponentsAndAssignsIDs(t *testing.T) {
	t.Parallel()

	got := ToAuthors(sampleBatch(), 100)
	want := AuthorRows{
		{ID: 100, DocumentID: "0704.0001", Author: "Doe, J., A"},
		{ID: 101, DocumentID: "0704.0001", Author: "Smith, B."},
		{ID: 102, DocumentID: "0704.0002", Author: "Streinu, Ileana, "},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ToAuthors = %+v; want %+v", got, want)
	}
}

func TestToAuthors_EmptyAuthorsParsed(t *testing.T) {
	t.Parallel()

	b := records.Batch{{ID: "x", UpdateDate: "2020-01-01"}}
	if got := ToAuthors(b, 7); len(got) != 0 {
		t.Fatalf("len(ToAuthors) = %d; want 0", len(got))
	}
}

func TestToVersions_ParsesCreatedAndAssignsIDs(t *testing.T) {
	t.Parallel()

	got, err := ToVersions(sampleBatch(), 0)
	if err != nil {
		t.Fatalf("ToVersions error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(ToVersions) = %d; want 3", len(got))
	}
	for i, r := range got {
		if r.ID != int64(i) {
			t.Errorf("row %d id = %d; want %d", i, r.ID, i)
		}
	}
	want := time.Date(2007, time.April, 2, 19, 18, 42, 0, time.UTC)
	if !got[0].Created.Equal(want) {
		t.Fatalf("created = %v; want %v", got[0].Created, want)
	}
	if got[2].DocumentID != "0704.0002" || got[2].Version != "v1" {
		t.Fatalf("row 2 = %+v", got[2])
	}
}

func TestToVersions_GMTMidnight(t *testing.T) {
	t.Parallel()

	b := records.Batch{{
		ID:       "a",
		Versions: []records.Version{{Version: "v1", Created: "Mon, 2 Jan 2020 00:00:00 GMT"}},
	}}
	got, err := ToVersions(b, 5)
	if err != nil {
		t.Fatalf("ToVersions error: %v", err)
	}
	want := time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)
	if !got[0].Created.Equal(want) || got[0].Created.Location() != time.UTC {
		t.Fatalf("created = %v; want %v", got[0].Created, want)
	}
	if got[0].ID != 5 {
		t.Fatalf("id = %d; want 5", got[0].ID)
	}
}

func TestToVersions_BadLayout(t *testing.T) {
	t.Parallel()

	tests := []string{
		"2007-04-02 19:18:42",
		"Mon, 2 Apr 2007",
		"",
		"Mon, 2 Apr 2007 19:18:42 EST",
		"Mon, 2 Apr 2007 19:18:42 ZZZ",
		"Mon, 2 Apr 2007 19:18:42 GMT+3",
	}
	for _, created := range tests {
		b := records.Batch{{ID: "bad", Versions: []records.Version{{Version: "v1", Created: created}}}}
		_, err := ToVersions(b, 0)
		var de *DateParseError
		if !errors.As(err, &de) {
			t.Fatalf("ToVersions(%q) err = %v; want *DateParseError", created, err)
		}
		if de.DocumentID != "bad" || de.Field != "versions.created" || de.Value != created {
			t.Fatalf("DateParseError = %+v", de)
		}
	}
}

func TestToDocuments(t *testing.T) {
	t.Parallel()

	got, err := ToDocuments(sampleBatch())
	if err != nil {
		t.Fatalf("ToDocuments error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(ToDocuments) = %d; want 2", len(got))
	}
	want := time.Date(2008, time.November, 13, 0, 0, 0, 0, time.UTC)
	if !got[0].UpdateDate.Equal(want) {
		t.Fatalf("update_date = %v; want %v", got[0].UpdateDate, want)
	}
	if got[0].JournalRef == nil || *got[0].JournalRef != "Phys.Rev.D76:013009,2007" {
		t.Fatalf("journal-ref = %v", got[0].JournalRef)
	}
	if got[1].Title != nil {
		t.Fatalf("missing title = %q; want nil", *got[1].Title)
	}
}

func TestToDocuments_BadUpdateDate(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"13/11/2008", "2008-11-13T00:00:00Z", ""} {
		_, err := ToDocuments(records.Batch{{ID: "d", UpdateDate: v}})
		var de *DateParseError
		if !errors.As(err, &de) || de.Field != "update_date" {
			t.Fatalf("ToDocuments(%q) err = %v; want update_date *DateParseError", v, err)
		}
	}
}

func TestRowCountsMatchConsumedIDs(t *testing.T) {
	t.Parallel()

	b := sampleBatch()
	authors := ToAuthors(b, 10)
	versions, err := ToVersions(b, 20)
	if err != nil {
		t.Fatal(err)
	}
	if last := authors[len(authors)-1].ID; last != 10+int64(len(authors))-1 {
		t.Fatalf("last author id = %d; want %d", last, 10+len(authors)-1)
	}
	if last := versions[len(versions)-1].ID; last != 20+int64(len(versions))-1 {
		t.Fatalf("last version id = %d; want %d", last, 20+len(versions)-1)
	}
}

func TestNormalizer_NormalizeText(t *testing.T) {
	t.Parallel()

	b := records.Batch{{
		ID:            "n",
		Title:         strp("  A title\x00 "),
		UpdateDate:    "2020-01-01",
		AuthorsParsed: [][]string{{" Doe ", "J. "}},
	}}
	n := New(Options{NormalizeText: true})

	docs, err := n.Documents(b)
	if err != nil {
		t.Fatal(err)
	}
	if *docs[0].Title != "A title" {
		t.Fatalf("title = %q; want %q", *docs[0].Title, "A title")
	}
	if got := n.Authors(b, 0)[0].Author; got != "Doe, J." {
		t.Fatalf("author = %q; want %q", got, "Doe, J.")
	}
	if *b[0].Title != "  A title\x00 " {
		t.Fatalf("input record mutated: %q", *b[0].Title)
	}
}

func TestValuesOrder(t *testing.T) {
	t.Parallel()

	docs := DocumentRows{{ID: "x", Title: strp("t")}}
	v := docs.Values()[0]
	if len(v) != 11 || v[0] != "x" || v[1] != "t" || v[2] != nil {
		t.Fatalf("DocumentRows.Values = %#v", v)
	}
	a := AuthorRows{{ID: 3, DocumentID: "x", Author: "Doe"}}.Values()[0]
	if !reflect.DeepEqual(a, []any{int64(3), "x", "Doe"}) {
		t.Fatalf("AuthorRows.Values = %#v", a)
	}
}
