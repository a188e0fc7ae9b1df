package transformer

import "arxivdb/internal/records"

// Documents selects the document field set from every record and parses
// update_date. The first unparseable date aborts with a *DateParseError.
func (n *Normalizer) Documents(b records.Batch) (DocumentRows, error) {
	out := make(DocumentRows, 0, len(b))
	for i := range b {
		rec := &b[i]
		updated, err := parseExact(rec.ID, "update_date", UpdateDateLayout, rec.UpdateDate)
		if err != nil {
			return nil, err
		}
		out = append(out, DocumentRow{
			ID:         rec.ID,
			Title:      n.cleanPtr(rec.Title),
			Submitter:  n.cleanPtr(rec.Submitter),
			Comments:   n.cleanPtr(rec.Comments),
			JournalRef: n.cleanPtr(rec.JournalRef),
			DOI:        n.cleanPtr(rec.DOI),
			ReportNo:   n.cleanPtr(rec.ReportNo),
			Categories: n.cleanPtr(rec.Categories),
			License:    n.cleanPtr(rec.License),
			Abstract:   n.cleanPtr(rec.Abstract),
			UpdateDate: updated,
		})
	}
	return out, nil
}
