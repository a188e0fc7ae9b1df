package transformer

import "time"

// DocumentRow is one row of the documents table. Values() order matches
// schema.Documents columns.
type DocumentRow struct {
	ID         string
	Title      *string
	Submitter  *string
	Comments   *string
	JournalRef *string
	DOI        *string
	ReportNo   *string
	Categories *string
	License    *string
	Abstract   *string
	UpdateDate time.Time
}

// AuthorRow is one (document, author) pair.
type AuthorRow struct {
	ID         int64
	DocumentID string
	Author     string
}

// VersionRow is one (document, version) pair.
type VersionRow struct {
	ID         int64
	DocumentID string
	Version    string
	Created    time.Time
}

type (
	DocumentRows []DocumentRow
	AuthorRows   []AuthorRow
	VersionRows  []VersionRow
)

// Values returns the rows as positional values for storage.Loader.
func (rs DocumentRows) Values() [][]any {
	out := make([][]any, len(rs))
	for i, r := range rs {
		out[i] = []any{
			r.ID,
			nullable(r.Title),
			nullable(r.Submitter),
			nullable(r.Comments),
			nullable(r.JournalRef),
			nullable(r.DOI),
			nullable(r.ReportNo),
			nullable(r.Categories),
			nullable(r.License),
			nullable(r.Abstract),
			r.UpdateDate,
		}
	}
	return out
}

// Values returns the rows as positional values (id, document_id, author).
func (rs AuthorRows) Values() [][]any {
	out := make([][]any, len(rs))
	for i, r := range rs {
		out[i] = []any{r.ID, r.DocumentID, r.Author}
	}
	return out
}

// Values returns the rows as positional values (id, document_id, version, created).
func (rs VersionRows) Values() [][]any {
	out := make([][]any, len(rs))
	for i, r := range rs {
		out[i] = []any{r.ID, r.DocumentID, r.Version, r.Created}
	}
	return out
}

// nullable unwraps p so drivers see an untyped nil rather than (*string)(nil).
func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
