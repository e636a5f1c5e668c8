package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSimple(t *testing.T) {
	a := Analyze("a a b")
	assert.Equal(t, []string{"a", "a", "b"}, a.Tokens)
	assert.Equal(t, 3, a.Total)
	assert.Equal(t, 2, a.UniqueCount)
	assert.Equal(t, []string{"a", "b"}, a.Unique)
	assert.Equal(t, []TokenCount{{"a", 2}, {"b", 1}}, a.MostCommon)
	assert.Equal(t, 5, a.TotalChars)
	assert.Equal(t, 3, a.CharsNoSpaces)
	assert.InDelta(t, 1.0, a.AvgTokenLength, 1e-9)
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze("   ")
	assert.Empty(t, a.Tokens)
	assert.Zero(t, a.Total)
	assert.Zero(t, a.AvgTokenLength)
	assert.Empty(t, a.MostCommon)
}

func TestMostCommonTiesKeepFirstSeenOrder(t *testing.T) {
	tokens := []string{"z", "y", "x", "y", "z", "w"}
	got := MostCommon(tokens, 10)
	assert.Equal(t, []TokenCount{{"z", 2}, {"y", 2}, {"x", 1}, {"w", 1}}, got)

	assert.Equal(t, []TokenCount{{"z", 2}}, MostCommon(tokens, 1))
}

func TestMostCommonCapsAtTen(t *testing.T) {
	a := Analyze("a b c d e f g h i j k l")
	require.Len(t, a.MostCommon, MostCommonLimit)
	assert.Equal(t, "a", a.MostCommon[0].Token)
	assert.Equal(t, "j", a.MostCommon[9].Token)
}

func TestTokenizeMethods(t *testing.T) {
	in := "Hello, World! It's 2024 now_ok"
	cases := map[Method][]string{
		Whitespace:   {"Hello,", "World!", "It's", "2024", "now_ok"},
		Punctuation:  {"hello", "world", "it", "s", "2024", "now_ok"},
		Alphanumeric: {"Hello", "World", "It", "s", "2024", "now_ok"},
		WordsOnly:    {"Hello", "World", "It", "s"},
	}
	for m, want := range cases {
		assert.Equal(t, want, Tokenize(in, m), string(m))
	}
	assert.Equal(t, []string{}, Tokenize("", WordsOnly))
}

func TestTokenizeNonASCII(t *testing.T) {
	in := "Café naïve São x2 Ωmega ok"
	assert.Equal(t, []string{"café", "naïve", "são", "x2", "ωmega", "ok"}, Tokenize(in, Punctuation))
	assert.Equal(t, []string{"Café", "naïve", "São", "x2", "Ωmega", "ok"}, Tokenize(in, Alphanumeric))
	assert.Equal(t, []string{"ok"}, Tokenize(in, WordsOnly))
	assert.Equal(t, []string{}, Tokenize("Café naïve São", WordsOnly))
}

func TestParseMethod(t *testing.T) {
	assert.Equal(t, Punctuation, ParseMethod("punctuation"))
	assert.Equal(t, WordsOnly, ParseMethod("words_only"))
	assert.Equal(t, Whitespace, ParseMethod("bogus"))
	assert.Equal(t, Whitespace, ParseMethod(""))
}

func TestSplitWords(t *testing.T) {
	got := SplitWords("cat, dog\nbird   fish,,\t cow ")
	assert.Equal(t, []string{"cat", "dog", "bird", "fish", "cow"}, got)
	assert.Empty(t, SplitWords(" , \n"))
}

func TestVocabularyScenario(t *testing.T) {
	v := NewVocabulary([]string{"cat", "Cat ", " dog", "cat"})
	require.Equal(t, 2, v.Size())
	assert.Equal(t, []string{"cat", "dog"}, v.Words())

	id, ok := v.Index("cat")
	assert.True(t, ok)
	assert.Equal(t, 0, id)
	id, ok = v.Index("  DOG")
	assert.True(t, ok)
	assert.Equal(t, 1, id)
}

func TestVocabularyIndicesAreContiguousAndSorted(t *testing.T) {
	words := []string{"pear", "Apple", "banana", "apple", "  ", "cherry", "PEAR"}
	v := NewVocabulary(words)
	require.Equal(t, 4, v.Size())
	want := []string{"apple", "banana", "cherry", "pear"}
	for i, w := range want {
		id, ok := v.Index(w)
		require.True(t, ok, w)
		assert.Equal(t, i, id)
		got, ok := v.Word(i)
		require.True(t, ok)
		assert.Equal(t, w, got)
	}
	_, ok := v.Word(4)
	assert.False(t, ok)
	_, ok = v.Word(-1)
	assert.False(t, ok)
}

func TestEncodeNotFound(t *testing.T) {
	v := NewVocabulary([]string{"cat", "dog"})
	vec, ok := v.Encode("bird")
	assert.False(t, ok)
	assert.Nil(t, vec)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	v := NewVocabulary([]string{"red", "green", "blue", "Green"})
	for _, w := range v.Words() {
		vec, ok := v.Encode(w)
		require.True(t, ok)
		require.Len(t, vec, v.Size())

		ones := 0
		for _, x := range vec {
			ones += x
		}
		assert.Equal(t, 1, ones)

		back, ok := v.Decode(vec)
		require.True(t, ok)
		assert.Equal(t, w, back)
	}
}

func TestDecodeRejectsMalformedVectors(t *testing.T) {
	v := NewVocabulary([]string{"a", "b", "c"})
	for _, vec := range [][]int{
		{0, 0, 0},
		{1, 1, 0},
		{0, 2, 0},
		{1, 0},
		nil,
	} {
		_, ok := v.Decode(vec)
		assert.False(t, ok, "%v", vec)
	}
}

func TestEncodeAllDropsUnknownWords(t *testing.T) {
	v := NewVocabulary([]string{"cat", "dog"})
	rows := v.EncodeAll([]string{"Dog", "bird", "cat "})
	require.Len(t, rows, 2)
	assert.Equal(t, Encoded{Word: "dog", Index: 1, Vector: []int{0, 1}}, rows[0])
	assert.Equal(t, Encoded{Word: "cat", Index: 0, Vector: []int{1, 0}}, rows[1])
}
