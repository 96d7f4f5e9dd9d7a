// Package corpus loads tab-separated bilingual sentence pairs.
//
// Corpus files are UTF-8 text with one pair per line, target sentence
// first, then a single tab, then the source sentence. This is the column
// order of the Tatoeba exports the training sets are built from.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

var (
	// ErrFormat reports a line without exactly one tab separator.
	ErrFormat = errors.New("malformed corpus line")

	// ErrEncoding reports a line that is not valid UTF-8.
	ErrEncoding = errors.New("invalid utf-8 encoding")
)

// maxLineBytes bounds a single corpus line. Sentence pairs are short;
// anything past this is a broken file, not a sentence.
const maxLineBytes = 1 << 20

// Pair is one bilingual sentence pair. Source is the sentence in the
// language being translated from, Target the reference translation.
type Pair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Corpus is an ordered, immutable collection of sentence pairs. Order
// matches the input file's line order.
type Corpus struct {
	pairs []Pair
}

// New builds a Corpus from pairs. The slice is copied.
func New(pairs []Pair) *Corpus {
	copied := make([]Pair, len(pairs))
	copy(copied, pairs)
	return &Corpus{pairs: copied}
}

// Read parses sentence pairs from r until EOF.
// A line without exactly one tab fails with ErrFormat, a line with invalid
// UTF-8 with ErrEncoding; both carry the offending line number.
func Read(r io.Reader) (*Corpus, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var pairs []Pair
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("line %d: %w", lineNo, ErrEncoding)
		}
		if strings.Count(line, "\t") != 1 {
			return nil, fmt.Errorf("line %d: %w", lineNo, ErrFormat)
		}

		target, source, _ := strings.Cut(line, "\t")
		pairs = append(pairs, Pair{Source: source, Target: target})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Corpus{pairs: pairs}, nil
}

// LoadFile reads a corpus file from disk.
func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Len returns the number of pairs.
func (c *Corpus) Len() int {
	return len(c.pairs)
}

// At returns the pair at index i.
func (c *Corpus) At(i int) Pair {
	return c.pairs[i]
}

// Pairs returns a copy of all pairs in corpus order.
func (c *Corpus) Pairs() []Pair {
	copied := make([]Pair, len(c.pairs))
	copy(copied, c.pairs)
	return copied
}
