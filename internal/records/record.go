// Package records defines the input shape of one line of the arXiv metadata
// feed and the batch type that flows through the pipeline.
package records

// Record is a single decoded line of the arXiv metadata snapshot.
//
// Scalar fields are pointers so that JSON null and missing keys are kept
// apart from empty strings; both are stored as NULL.
type Record struct {
	ID            string     `json:"id"`
	Submitter     *string    `json:"submitter"`
	Authors       *string    `json:"authors"`
	Title         *string    `json:"title"`
	Comments      *string    `json:"comments"`
	JournalRef    *string    `json:"journal-ref"`
	DOI           *string    `json:"doi"`
	ReportNo      *string    `json:"report-no"`
	Categories    *string    `json:"categories"`
	License       *string    `json:"license"`
	Abstract      *string    `json:"abstract"`
	UpdateDate    string     `json:"update_date"`
	AuthorsParsed [][]string `json:"authors_parsed"`
	Versions      []Version  `json:"versions"`

	// Line is the 1-based line number in the source; it is not part of the
	// JSON payload.
	Line int `json:"-"`
}

// Version is one entry of a record's "versions" array.
type Version struct {
	Version string `json:"version"`
	Created string `json:"created"`
}

// Batch is an ordered slice of records processed as one unit.
type Batch []Record

// IDs returns the natural keys of the batch in order.
func (b Batch) IDs() []string {
	out := make([]string, len(b))
	for i := range b {
		out[i] = b[i].ID
	}
	return out
}
