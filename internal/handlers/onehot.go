package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Brownie44l1/ai-dashboard/internal/text"
)

const oneHotIndex = "/one-hot-vector/"

type vocabEntry struct {
	Index int
	Word  string
}

type oneHotResult struct {
	Words         []string
	Vocab         []vocabEntry
	VocabSize     int
	Rows          []text.Encoded
	Selected      string
	SelectedIndex int
	SelectedVec   []int
}

func (h *Handler) OneHotIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "onehot_index.html", "One-Hot Vector", nil)
}

func (h *Handler) OneHotProcess(w http.ResponseWriter, r *http.Request) {
	input := strings.TrimSpace(r.FormValue("words"))
	selected := text.NormalizeWord(r.FormValue("selected_word"))

	if input == "" {
		redirectWithFlash(w, r, oneHotIndex, noticeNoWords.Error())
		return
	}
	words := text.SplitWords(input)
	if len(words) < 2 {
		redirectWithFlash(w, r, oneHotIndex, noticeFewWords.Error())
		return
	}

	vocab := text.NewVocabulary(words)
	entries := make([]vocabEntry, 0, vocab.Size())
	for i, word := range vocab.Words() {
		entries = append(entries, vocabEntry{Index: i, Word: word})
	}

	res := oneHotResult{
		Words:     words,
		Vocab:     entries,
		VocabSize: vocab.Size(),
		Rows:      vocab.EncodeAll(words),
		Selected:  selected,
	}

	var flashes []string
	if selected != "" {
		if vec, ok := vocab.Encode(selected); ok {
			res.SelectedVec = vec
			res.SelectedIndex, _ = vocab.Index(selected)
		} else {
			flashes = append(flashes, fmt.Sprintf("Selected word %q not found in vocabulary.", selected))
		}
	}

	h.render(w, r, "onehot_result.html", "One-Hot Vector", res, flashes...)
}
