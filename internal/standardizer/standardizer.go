// Package standardizer normalizes raw sentence text into the canonical
// form consumed by vocabulary construction and encoding.
package standardizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// StartToken marks the beginning of every standardized sentence.
	StartToken = "[START]"

	// EndToken marks the end of every standardized sentence.
	EndToken = "[END]"
)

// decomposer splits accented characters into base character plus combining
// marks (NFKD) and lowercases the result. The combining marks fall outside
// the retained character set below, which is how accents are dropped.
var decomposer = transform.Chain(norm.NFKD, runes.Map(unicode.ToLower))

// Standardize converts raw text to canonical form: NFKD decomposition,
// lowercasing, removal of every character outside {space, a-z, . ? ! , ¿},
// single spaces around each retained punctuation character, whitespace
// collapsed to single spaces, and the result wrapped in start/end markers.
//
// The transform is pure and total; the same input always yields the same
// output. Re-standardizing the body of a standardized sentence (the part
// between the markers) yields the sentence unchanged.
func Standardize(text string) string {
	decomposed, _, err := transform.String(decomposer, text)
	if err != nil {
		// The chain cannot fail on any input, but the character filter
		// below must still see lowercase text if it ever does.
		decomposed = strings.ToLower(text)
	}

	var spaced strings.Builder
	spaced.Grow(len(decomposed) + len(decomposed)/4)
	for _, r := range decomposed {
		switch {
		case r == ' ' || ('a' <= r && r <= 'z'):
			spaced.WriteRune(r)
		case isPunct(r):
			spaced.WriteByte(' ')
			spaced.WriteRune(r)
			spaced.WriteByte(' ')
		}
		// Everything else, combining marks included, is dropped.
	}

	body := strings.Join(strings.Fields(spaced.String()), " ")
	return StartToken + " " + body + " " + EndToken
}

// isPunct reports whether r is one of the punctuation characters that
// survive standardization and get spaced out as their own tokens.
func isPunct(r rune) bool {
	switch r {
	case '.', '?', '!', ',', '¿':
		return true
	}
	return false
}
