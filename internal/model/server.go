package model

import (
	"context"
	"fmt"
	"log"

	"github.com/Brownie44l1/ai-dashboard/internal/ai"
	"github.com/Brownie44l1/ai-dashboard/internal/config"
	"github.com/Brownie44l1/ai-dashboard/internal/session"
)

// Server bundles the collaborators every handler needs.
type Server struct {
	Config    *config.Config
	Generator ai.Generator
	Cache     session.Store
}

// NewServer wires providers from cfg. A missing API key leaves that half of
// the gateway unset; handlers then report it as not configured.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	gw := &ai.Gateway{}
	if cfg.GeminiAPIKey != "" {
		gw.Text = ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout)
	} else {
		log.Printf("Warning: GEMINI_API_KEY not set, text generation disabled")
	}
	if cfg.OpenAIAPIKey != "" {
		gw.Image = ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIImageModel, cfg.AITimeout)
	} else {
		log.Printf("Warning: OPENAI_API_KEY not set, image generation disabled")
	}

	var cache session.Store
	if cfg.DatabaseURL != "" {
		pg, err := session.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.SessionTTL, cfg.SessionTTL/4)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to session database: %w", err)
		}
		cache = pg
	} else {
		cache = session.NewMemoryStore(cfg.SessionTTL, cfg.SessionTTL/4)
	}

	return &Server{
		Config:    cfg,
		Generator: gw,
		Cache:     cache,
	}, nil
}

// TextConfigured reports whether the text provider is available.
func (s *Server) TextConfigured() bool {
	gw, ok := s.Generator.(*ai.Gateway)
	return !ok || gw.TextConfigured()
}

// ImageConfigured reports whether the image provider is available.
func (s *Server) ImageConfigured() bool {
	gw, ok := s.Generator.(*ai.Gateway)
	return !ok || gw.ImageConfigured()
}

func (s *Server) Close() {
	if s.Cache != nil {
		// Background: the serve context is usually cancelled by the time we get here.
		s.Cache.Close(context.Background())
	}
}
