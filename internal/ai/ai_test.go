package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayNotConfigured(t *testing.T) {
	g := &Gateway{}
	_, err := g.GenerateText(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	_, err = g.GenerateImage(context.Background(), "hi")
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	_, err = g.DescribeImage(context.Background(), []byte{1}, "image/png")
	assert.True(t, errors.Is(err, ErrNotConfigured))

	assert.False(t, g.TextConfigured())
	assert.False(t, g.ImageConfigured())

	var nilGateway *Gateway
	_, err = nilGateway.GenerateText(context.Background(), "hi")
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestGeminiGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Contents, 1)
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"edge "},{"text":"maps"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("secret", "test-model", time.Second)
	c.BaseURL = srv.URL

	got, err := c.GenerateText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "edge maps", got)

	g := &Gateway{Text: c}
	assert.True(t, g.TextConfigured())
	got, err = g.GenerateText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "edge maps", got)
}

func TestGeminiDescribeImageSendsInlineData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		parts := req.Contents[0].Parts
		assert.Len(t, parts, 2)
		assert.Equal(t, DescribePrompt, parts[0].Text)
		assert.NotNil(t, parts[1].InlineData)
		assert.Equal(t, "image/png", parts[1].InlineData.MimeType)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0xCA, 0xFE}), parts[1].InlineData.Data)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"a red square"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", "m", time.Second)
	c.BaseURL = srv.URL
	g := &Gateway{Text: c}

	got, err := g.DescribeImage(context.Background(), []byte{0xCA, 0xFE}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "a red square", got)
}

func TestGeminiErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted"}}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", "m", time.Second)
	c.BaseURL = srv.URL
	_, err := c.GenerateText(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestGeminiEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k", "m", time.Second)
	c.BaseURL = srv.URL
	_, err := c.GenerateText(context.Background(), "x")
	assert.Error(t, err)
}

func TestGeminiTimeoutIsRecoverable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewGeminiClient("k", "m", 50*time.Millisecond)
	c.BaseURL = srv.URL
	_, err := c.GenerateText(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}

func TestOpenAIGenerateImage(t *testing.T) {
	want := []byte("\x89PNG fake")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openAIImageRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "img-model", req.Model)
		assert.Equal(t, "b64_json", req.ResponseFormat)
		assert.Equal(t, 1, req.N)

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(want)}},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "img-model", time.Second)
	c.BaseURL = srv.URL
	got, err := (&Gateway{Image: c}).GenerateImage(context.Background(), "feature maps")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpenAIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("bad", "m", time.Second)
	c.BaseURL = srv.URL
	_, err := c.GenerateImage(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestBlockPrompt(t *testing.T) {
	for block := 1; block <= Blocks; block++ {
		p, err := BlockPrompt(block, "a cat on a sofa")
		require.NoError(t, err)
		assert.Contains(t, p, "a cat on a sofa")
		assert.True(t, ValidBlock(block))

		ip, err := BlockImagePrompt(block, "a cat on a sofa")
		require.NoError(t, err)
		assert.Contains(t, ip, "a cat on a sofa")
	}

	p, _ := BlockPrompt(1, "x")
	assert.Contains(t, p, "FIRST BLOCK")
	p, _ = BlockPrompt(4, "x")
	assert.Contains(t, p, "FOURTH BLOCK")

	for _, bad := range []int{0, 5, -1} {
		_, err := BlockPrompt(bad, "x")
		assert.Error(t, err)
		_, err = BlockImagePrompt(bad, "x")
		assert.Error(t, err)
		assert.False(t, ValidBlock(bad))
	}
}

func TestParseTokenization(t *testing.T) {
	raw := "Sure!\n```json\n{\"tokens\": [\"Hel\", \"lo\"], \"explanation\": \"subwords\"}\n```"
	got := ParseTokenization(raw)
	assert.Equal(t, []string{"Hel", "lo"}, got.Tokens)
	assert.Equal(t, "subwords", got.Explanation)

	fallback := ParseTokenization("Hel\nlo\n\n```")
	assert.Equal(t, []string{"Hel", "lo"}, fallback.Tokens)
	assert.NotEmpty(t, fallback.Explanation)

	empty := ParseTokenization("")
	assert.Equal(t, []string{}, empty.Tokens)
}

func TestTokenizePromptEmbedsText(t *testing.T) {
	p := TokenizePrompt("unbelievable")
	assert.True(t, strings.HasSuffix(p, "unbelievable"))
	assert.Contains(t, p, `"tokens"`)
}
