package transformer

import (
	"strings"

	"arxivdb/internal/records"
)

// AuthorSeparator joins the components of one authors_parsed entry.
const AuthorSeparator = ", "

// Authors flattens authors_parsed into one row per author. Ids run from
// offset in record order, then author order. Components are joined as-is,
// so ["Doe","J.",""] becomes "Doe, J., ".
func (n *Normalizer) Authors(b records.Batch, offset int64) AuthorRows {
	total := 0
	for i := range b {
		total += len(b[i].AuthorsParsed)
	}

	out := make(AuthorRows, 0, total)
	next := offset
	for i := range b {
		rec := &b[i]
		for _, parts := range rec.AuthorsParsed {
			out = append(out, AuthorRow{
				ID:         next,
				DocumentID: rec.ID,
				Author:     n.joinName(parts),
			})
			next++
		}
	}
	return out
}

func (n *Normalizer) joinName(parts []string) string {
	if n == nil || n.text == nil {
		return strings.Join(parts, AuthorSeparator)
	}
	cleaned := make([]string, len(parts))
	for i, p := range parts {
		cleaned[i] = n.clean(p)
	}
	return strings.Join(cleaned, AuthorSeparator)
}
