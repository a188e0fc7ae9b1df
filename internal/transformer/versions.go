package transformer

import "arxivdb/internal/records"

// Versions flattens the versions array into one row per entry, in order,
// assigning ids from offset. created must match VersionCreatedLayout exactly.
func (n *Normalizer) Versions(b records.Batch, offset int64) (VersionRows, error) {
	total := 0
	for i := range b {
		total += len(b[i].Versions)
	}

	out := make(VersionRows, 0, total)
	next := offset
	for i := range b {
		rec := &b[i]
		for _, v := range rec.Versions {
			created, err := parseExact(rec.ID, "versions.created", VersionCreatedLayout, v.Created)
			if err != nil {
				return nil, err
			}
			out = append(out, VersionRow{
				ID:         next,
				DocumentID: rec.ID,
				Version:    v.Version,
				Created:    created,
			})
			next++
		}
	}
	return out, nil
}
