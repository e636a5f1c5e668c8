package text

import (
	"regexp"
	"sort"
	"strings"
)

var reWordSeparators = regexp.MustCompile(`[,\n\s]+`)

// SplitWords splits free text on commas, newlines and whitespace, dropping empties.
func SplitWords(s string) []string {
	parts := reWordSeparators.Split(s, -1)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			words = append(words, p)
		}
	}
	return words
}

// NormalizeWord lower-cases and trims a word.
func NormalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// Vocabulary maps normalized words to contiguous indices assigned in sorted order.
type Vocabulary struct {
	wordToID map[string]int
	idToWord []string
}

// NewVocabulary normalizes, deduplicates and sorts words, then assigns 0..n-1.
func NewVocabulary(words []string) *Vocabulary {
	seen := make(map[string]bool, len(words))
	var unique []string
	for _, w := range words {
		n := NormalizeWord(w)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, n)
	}
	sort.Strings(unique)

	v := &Vocabulary{
		wordToID: make(map[string]int, len(unique)),
		idToWord: unique,
	}
	for i, w := range unique {
		v.wordToID[w] = i
	}
	return v
}

// Size is the number of distinct words.
func (v *Vocabulary) Size() int { return len(v.idToWord) }

// Words returns the vocabulary in index order.
func (v *Vocabulary) Words() []string {
	out := make([]string, len(v.idToWord))
	copy(out, v.idToWord)
	return out
}

// Index looks up the normalized form of word.
func (v *Vocabulary) Index(word string) (int, bool) {
	id, ok := v.wordToID[NormalizeWord(word)]
	return id, ok
}

// Word is the inverse of Index.
func (v *Vocabulary) Word(id int) (string, bool) {
	if id < 0 || id >= len(v.idToWord) {
		return "", false
	}
	return v.idToWord[id], true
}

// Encode returns the one-hot vector for word. The boolean is false when the
// word is not in the vocabulary; no vector is produced in that case.
func (v *Vocabulary) Encode(word string) ([]int, bool) {
	id, ok := v.Index(word)
	if !ok {
		return nil, false
	}
	vec := make([]int, len(v.idToWord))
	vec[id] = 1
	return vec, true
}

// Decode maps a one-hot vector back to its word. It fails unless vec has
// the vocabulary's length and exactly one entry set to 1.
func (v *Vocabulary) Decode(vec []int) (string, bool) {
	if len(vec) != len(v.idToWord) {
		return "", false
	}
	hot := -1
	for i, x := range vec {
		switch {
		case x == 0:
		case x == 1 && hot == -1:
			hot = i
		default:
			return "", false
		}
	}
	return v.Word(hot)
}

// Encoded is one row of a one-hot matrix.
type Encoded struct {
	Word   string
	Index  int
	Vector []int
}

// EncodeAll encodes every word in order, silently dropping words that are
// not in the vocabulary.
func (v *Vocabulary) EncodeAll(words []string) []Encoded {
	out := make([]Encoded, 0, len(words))
	for _, w := range words {
		vec, ok := v.Encode(w)
		if !ok {
			continue
		}
		id, _ := v.Index(w)
		out = append(out, Encoded{Word: NormalizeWord(w), Index: id, Vector: vec})
	}
	return out
}
