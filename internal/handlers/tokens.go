package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/Brownie44l1/ai-dashboard/internal/ai"
	"github.com/Brownie44l1/ai-dashboard/internal/model"
	"github.com/Brownie44l1/ai-dashboard/internal/text"
	"github.com/samber/lo"
)

const tokenIndex = "/token-checker/"

type tokenForm struct {
	Methods []text.Method
	AI      bool
}

type tokenResult struct {
	Text        string
	Method      text.Method
	Basic       text.Analysis
	Tokens      []string
	TokenCount  int
	UniqueCount int
	AI          bool
	MaxAIChars  int
}

func (h *Handler) TokenIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "token_index.html", "Token Checker", tokenForm{
		Methods: text.Methods,
		AI:      h.server.TextConfigured(),
	})
}

func (h *Handler) TokenAnalyze(w http.ResponseWriter, r *http.Request) {
	input := strings.TrimSpace(r.FormValue("text"))
	if input == "" {
		redirectWithFlash(w, r, tokenIndex, noticeNoText.Error())
		return
	}
	method := text.ParseMethod(r.FormValue("method"))

	tokens := text.Tokenize(input, method)
	h.render(w, r, "token_result.html", "Token Checker", tokenResult{
		Text:        input,
		Method:      method,
		Basic:       text.Analyze(input),
		Tokens:      tokens,
		TokenCount:  len(tokens),
		UniqueCount: len(lo.Uniq(tokens)),
		AI:          h.server.TextConfigured(),
		MaxAIChars:  ai.MaxTokenizeChars,
	})
}

// TokenAITokenize asks the text provider how a language model would split
// the submitted text.
func (h *Handler) TokenAITokenize(w http.ResponseWriter, r *http.Request) {
	var req model.AITokenizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: noticeBadJSON.Error()})
		return
	}

	input := strings.TrimSpace(req.Text)
	if input == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: noticeEmptyText.Error()})
		return
	}
	if utf8.RuneCountInString(input) > ai.MaxTokenizeChars {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error: fmt.Sprintf("Text is too long for AI tokenization. Please keep it under %d characters.", ai.MaxTokenizeChars),
		})
		return
	}

	raw, err := h.server.Generator.GenerateText(r.Context(), ai.TokenizePrompt(input))
	if err != nil {
		log.Printf("AI tokenization error: %v", err)
		writeJSON(w, http.StatusOK, model.ErrorResponse{Error: aiErrorMessage("AI tokenization", err)})
		return
	}

	t := ai.ParseTokenization(raw)
	writeJSON(w, http.StatusOK, model.AITokenizeResponse{
		Tokens:      t.Tokens,
		Count:       len(t.Tokens),
		Explanation: t.Explanation,
		Raw:         raw,
	})
}

// aiErrorMessage turns a provider failure into the inline text shown to the user.
func aiErrorMessage(what string, err error) string {
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		return err.Error()
	case errors.Is(err, ai.ErrTimeout):
		return what + " timed out. Please try again."
	default:
		return what + " failed: " + err.Error()
	}
}
