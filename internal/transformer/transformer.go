// Package transformer reshapes one records.Batch into the three relational
// row sets loaded by the pipeline: documents, authors and versions.
//
// All functions here are pure: no I/O and no state beyond the arguments.
// Synthetic keys for authors and versions are derived from the caller-supplied
// offset plus the row's position in the batch, so a batch can be reshaped
// before anything is written.
package transformer

import (
	"arxivdb/internal/records"
	"arxivdb/internal/transformer/builtin"
)

// Options controls optional text cleanup applied while reshaping.
type Options struct {
	// NormalizeText applies builtin.TextNormalizer to document string fields
	// and to author name components.
	NormalizeText bool
}

// Normalizer reshapes batches. The zero value performs no text cleanup.
// A Normalizer with NormalizeText enabled is not safe for concurrent use.
type Normalizer struct {
	text *builtin.TextNormalizer
}

// New returns a Normalizer configured by opts.
func New(opts Options) *Normalizer {
	n := &Normalizer{}
	if opts.NormalizeText {
		n.text = builtin.NewTextNormalizer()
	}
	return n
}

func (n *Normalizer) clean(s string) string {
	if n == nil || n.text == nil {
		return s
	}
	return n.text.String(s)
}

func (n *Normalizer) cleanPtr(p *string) *string {
	if p == nil || n == nil || n.text == nil {
		return p
	}
	s := n.text.String(*p)
	return &s
}

// ToDocuments is Normalizer.Documents without text cleanup.
func ToDocuments(b records.Batch) (DocumentRows, error) {
	return (*Normalizer)(nil).Documents(b)
}

// ToAuthors is Normalizer.Authors without text cleanup.
func ToAuthors(b records.Batch, offset int64) AuthorRows {
	return (*Normalizer)(nil).Authors(b, offset)
}

// ToVersions is Normalizer.Versions without text cleanup.
func ToVersions(b records.Batch, offset int64) (VersionRows, error) {
	return (*Normalizer)(nil).Versions(b, offset)
}
