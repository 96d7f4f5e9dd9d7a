// Package vocab builds frequency-ranked token vocabularies over
// standardized text and encodes sentences as fixed-length integer id
// sequences.
package vocab

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pricofy/corpus-pipeline/internal/standardizer"
)

const (
	// PadID is the id reserved for padding. It is the zero value on
	// purpose: a zeroed row is an all-padding row.
	PadID = 0

	// UnkID is the id reserved for out-of-vocabulary tokens.
	UnkID = 1

	// PadToken is the token stored at PadID.
	PadToken = ""

	// UnkToken is the token stored at UnkID.
	UnkToken = "[UNK]"
)

// reservedTokens counts the ids reserved ahead of corpus tokens.
const reservedTokens = 2

// ErrLength reports an invalid (negative) pad length passed to Encode.
var ErrLength = errors.New("negative pad length")

// Builder accumulates token counts from raw text and produces an immutable
// Vocabulary. Text is standardized before counting, so the start and end
// markers are counted like any other token and rank at the top of any
// non-trivial corpus.
type Builder struct {
	maxTokens   int
	standardize func(string) string
	counts      map[string]int
	firstSeen   map[string]int
	nextSeen    int
}

// NewBuilder returns a Builder that keeps the maxTokens most frequent
// tokens; maxTokens <= 0 keeps every token. A nil standardize falls back
// to standardizer.Standardize.
func NewBuilder(maxTokens int, standardize func(string) string) *Builder {
	if standardize == nil {
		standardize = standardizer.Standardize
	}
	return &Builder{
		maxTokens:   maxTokens,
		standardize: standardize,
		counts:      make(map[string]int),
		firstSeen:   make(map[string]int),
	}
}

// Add standardizes text and counts its whitespace-separated tokens.
func (b *Builder) Add(text string) {
	for _, token := range strings.Fields(b.standardize(text)) {
		if _, ok := b.counts[token]; !ok {
			b.firstSeen[token] = b.nextSeen
			b.nextSeen++
		}
		b.counts[token]++
	}
}

// Build ranks the accumulated tokens by frequency, breaking ties by first
// occurrence in the corpus, caps the ranking at maxTokens, and returns the
// resulting Vocabulary. Ids 0 and 1 are the reserved padding and unknown
// tokens; corpus tokens start at id 2 in rank order.
func (b *Builder) Build() *Vocabulary {
	type rankedToken struct {
		token string
		count int
		seen  int
	}

	ranked := make([]rankedToken, 0, len(b.counts))
	for token, count := range b.counts {
		ranked = append(ranked, rankedToken{token: token, count: count, seen: b.firstSeen[token]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].seen < ranked[j].seen
	})

	if b.maxTokens > 0 && len(ranked) > b.maxTokens {
		ranked = ranked[:b.maxTokens]
	}

	tokens := make([]string, 0, len(ranked)+reservedTokens)
	tokens = append(tokens, PadToken, UnkToken)
	for _, rt := range ranked {
		tokens = append(tokens, rt.token)
	}

	return newVocabulary(tokens, b.standardize)
}

// Vocabulary is an immutable bidirectional token/id mapping.
type Vocabulary struct {
	tokens      []string
	ids         map[string]int
	standardize func(string) string
}

func newVocabulary(tokens []string, standardize func(string) string) *Vocabulary {
	ids := make(map[string]int, len(tokens))
	for i, token := range tokens {
		ids[token] = i
	}
	return &Vocabulary{tokens: tokens, ids: ids, standardize: standardize}
}

// Size returns the number of entries, reserved ids included.
func (v *Vocabulary) Size() int {
	return len(v.tokens)
}

// Lookup returns the id for token, or UnkID if the token is absent.
func (v *Vocabulary) Lookup(token string) int {
	if id, ok := v.ids[token]; ok {
		return id
	}
	return UnkID
}

// Token returns the token stored at id and whether id is in range.
func (v *Vocabulary) Token(id int) (string, bool) {
	if id < 0 || id >= len(v.tokens) {
		return "", false
	}
	return v.tokens[id], true
}

// Tokens returns a copy of the token table in id order.
func (v *Vocabulary) Tokens() []string {
	copied := make([]string, len(v.tokens))
	copy(copied, v.tokens)
	return copied
}

// Ids standardizes text and maps each token to its id, UnkID for tokens
// outside the vocabulary. The result is unpadded.
func (v *Vocabulary) Ids(text string) []int {
	tokens := strings.Fields(v.standardize(text))
	ids := make([]int, len(tokens))
	for i, token := range tokens {
		ids[i] = v.Lookup(token)
	}
	return ids
}

// Encode standardizes and tokenizes text, maps tokens to ids, and
// truncates or right-pads with PadID to exactly padTo ids. It fails with
// ErrLength only when padTo is negative.
func (v *Vocabulary) Encode(text string, padTo int) ([]int, error) {
	if padTo < 0 {
		return nil, fmt.Errorf("pad length %d: %w", padTo, ErrLength)
	}
	ids := v.Ids(text)
	out := make([]int, padTo)
	copy(out, ids)
	return out, nil
}

// Decode maps ids back to tokens joined by single spaces. Padding ids are
// dropped, ids outside the table decode as UnkToken, and decoding stops
// after emitting the first end marker so trailing padding or garbage never
// leaks into the output.
func (v *Vocabulary) Decode(ids []int) string {
	var tokens []string
	for _, id := range ids {
		if id == PadID {
			continue
		}
		token, ok := v.Token(id)
		if !ok {
			token = UnkToken
		}
		tokens = append(tokens, token)
		if token == standardizer.EndToken {
			break
		}
	}
	return strings.Join(tokens, " ")
}

// Save writes the token table to path, one token per line, line number
// equal to id. Line 0 is the empty padding token.
func (v *Vocabulary) Save(path string) error {
	data := strings.Join(v.tokens, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("failed to save vocabulary: %w", err)
	}
	return nil
}

// Load reads a token table written by Save. A nil standardize falls back
// to standardizer.Standardize.
func Load(path string, standardize func(string) string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if standardize == nil {
		standardize = standardizer.Standardize
	}

	tokens := strings.Split(string(data), "\n")
	if n := len(tokens); n > 0 && tokens[n-1] == "" && n > reservedTokens {
		tokens = tokens[:n-1]
	}
	if len(tokens) < reservedTokens || tokens[PadID] != PadToken || tokens[UnkID] != UnkToken {
		return nil, fmt.Errorf("%s: vocabulary must reserve id 0 for padding and id 1 for %s", path, UnkToken)
	}

	return newVocabulary(tokens, standardize), nil
}
