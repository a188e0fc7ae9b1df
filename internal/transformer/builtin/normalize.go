// Package builtin contains reusable text cleanup used by the normalizer.
package builtin

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer cleans free-text fields:
//
//   - U+00A0 NO-BREAK SPACE becomes an ASCII space.
//   - Control runes other than '\n' and '\t' are removed.
//   - The result is NFC-composed and trimmed of surrounding whitespace.
//
// It holds a stateful transform chain and is not safe for concurrent use.
type TextNormalizer struct {
	t transform.Transformer
}

// NewTextNormalizer builds the transform chain once.
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{
		t: transform.Chain(
			runes.Map(func(r rune) rune {
				if r == '\u00a0' {
					return ' '
				}
				return r
			}),
			runes.Remove(runes.Predicate(isStrippedControl)),
			norm.NFC,
		),
	}
}

func isStrippedControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t'
}

// String returns the cleaned form of s. On a transform error s is returned
// trimmed but otherwise unchanged.
func (n *TextNormalizer) String(s string) string {
	out, _, err := transform.String(n.t, s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(out)
}
