package model

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/ai-dashboard/internal/ai"
	"github.com/Brownie44l1/ai-dashboard/internal/config"
	"github.com/Brownie44l1/ai-dashboard/internal/session"
)

func testConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.FromEnv(func(k string) string { return env[k] })
	require.NoError(t, err)
	return cfg
}

func TestNewServerWithoutKeys(t *testing.T) {
	s, err := NewServer(context.Background(), testConfig(t, nil))
	require.NoError(t, err)
	defer s.Close()

	assert.False(t, s.TextConfigured())
	assert.False(t, s.ImageConfigured())
	assert.IsType(t, &session.MemoryStore{}, s.Cache)
}

func TestNewServerWithKeys(t *testing.T) {
	s, err := NewServer(context.Background(), testConfig(t, map[string]string{
		"GEMINI_API_KEY": "g",
		"OPENAI_API_KEY": "o",
		"AI_TIMEOUT":     "3s",
	}))
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.TextConfigured())
	assert.True(t, s.ImageConfigured())

	gw := s.Generator.(*ai.Gateway)
	gemini, ok := gw.Text.(*ai.GeminiClient)
	require.True(t, ok)
	assert.Equal(t, "gemini-2.0-flash-exp", gemini.Model)
	_, ok = gw.Image.(*ai.OpenAIClient)
	assert.True(t, ok)
}

func TestNewServerBadDatabase(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewServer(ctx, testConfig(t, map[string]string{
		"DATABASE_URL": "postgres://nobody@127.0.0.1:1/none?connect_timeout=1",
	}))
	assert.Error(t, err)
}

func TestToolsHaveDistinctPaths(t *testing.T) {
	seen := map[string]bool{}
	for _, tool := range Tools {
		assert.False(t, seen[tool.Path], tool.Path)
		seen[tool.Path] = true
	}
	assert.Len(t, Tools, 5)
}
