package text

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Method selects how Tokenize splits text.
type Method string

const (
	Whitespace   Method = "whitespace"
	Punctuation  Method = "punctuation"
	Alphanumeric Method = "alphanumeric"
	WordsOnly    Method = "words_only"
)

// Methods lists every tokenization method in display order.
var Methods = []Method{Whitespace, Punctuation, Alphanumeric, WordsOnly}

// Word runs are Unicode letters, digits and underscores; RE2's \w is ASCII only.
var (
	reWordRun      = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	reASCIILetters = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// ParseMethod maps a form value to a Method, falling back to Whitespace.
func ParseMethod(s string) Method {
	for _, m := range Methods {
		if string(m) == s {
			return m
		}
	}
	return Whitespace
}

// Tokenize splits text with the given method. Punctuation lower-cases first.
// WordsOnly keeps the word runs made entirely of ASCII letters.
func Tokenize(text string, method Method) []string {
	var tokens []string
	switch method {
	case Punctuation:
		tokens = reWordRun.FindAllString(strings.ToLower(text), -1)
	case Alphanumeric:
		tokens = reWordRun.FindAllString(text, -1)
	case WordsOnly:
		tokens = lo.Filter(reWordRun.FindAllString(text, -1), func(t string, _ int) bool {
			return reASCIILetters.MatchString(t)
		})
	default:
		tokens = strings.Fields(text)
	}
	if tokens == nil {
		tokens = []string{}
	}
	return tokens
}

// TokenCount pairs a token with how often it occurred.
type TokenCount struct {
	Token string
	Count int
}

// Analysis is the frequency report for whitespace-split text.
type Analysis struct {
	Tokens         []string
	Unique         []string // first-seen order
	Counts         map[string]int
	Total          int
	UniqueCount    int
	AvgTokenLength float64
	TotalChars     int
	CharsNoSpaces  int
	MostCommon     []TokenCount
}

// MostCommonLimit is how many entries Analyze reports in MostCommon.
const MostCommonLimit = 10

// Analyze tokenizes on whitespace and computes frequency statistics.
func Analyze(text string) Analysis {
	tokens := Tokenize(text, Whitespace)
	unique := lo.Uniq(tokens)
	counts := lo.CountValues(tokens)

	a := Analysis{
		Tokens:        tokens,
		Unique:        unique,
		Counts:        counts,
		Total:         len(tokens),
		UniqueCount:   len(unique),
		TotalChars:    utf8.RuneCountInString(text),
		CharsNoSpaces: utf8.RuneCountInString(strings.ReplaceAll(text, " ", "")),
		MostCommon:    MostCommon(tokens, MostCommonLimit),
	}
	if a.Total > 0 {
		chars := lo.SumBy(tokens, func(t string) int { return utf8.RuneCountInString(t) })
		a.AvgTokenLength = float64(chars) / float64(a.Total)
	}
	return a
}

// MostCommon returns up to n tokens by descending count. Ties keep the order
// in which tokens were first seen.
func MostCommon(tokens []string, n int) []TokenCount {
	counts := lo.CountValues(tokens)
	out := lo.Map(lo.Uniq(tokens), func(t string, _ int) TokenCount {
		return TokenCount{Token: t, Count: counts[t]}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
