package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the dashboard reads from the environment at start-up.
type Config struct {
	Port string

	GeminiAPIKey     string
	GeminiModel      string
	OpenAIAPIKey     string
	OpenAIImageModel string
	AITimeout        time.Duration

	MaxUploadBytes int64
	SessionTTL     time.Duration
	DatabaseURL    string
}

const (
	defaultPort             = "8080"
	defaultGeminiModel      = "gemini-2.0-flash-exp"
	defaultOpenAIImageModel = "dall-e-3"
	defaultAITimeout        = 60 * time.Second
	defaultMaxUploadMB      = 16
	defaultSessionTTL       = time.Hour
)

// Load reads an optional .env file and then the process environment.
// A missing .env is not an error; a malformed one is.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can supply their own values.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:             orDefault(getenv("PORT"), defaultPort),
		GeminiAPIKey:     getenv("GEMINI_API_KEY"),
		GeminiModel:      orDefault(getenv("GEMINI_MODEL"), defaultGeminiModel),
		OpenAIAPIKey:     getenv("OPENAI_API_KEY"),
		OpenAIImageModel: orDefault(getenv("OPENAI_IMAGE_MODEL"), defaultOpenAIImageModel),
		AITimeout:        defaultAITimeout,
		MaxUploadBytes:   defaultMaxUploadMB << 20,
		SessionTTL:       defaultSessionTTL,
		DatabaseURL:      getenv("DATABASE_URL"),
	}

	if v := getenv("AI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid AI_TIMEOUT %q: use a positive duration like '30s'", v)
		}
		cfg.AITimeout = d
	}

	if v := getenv("MAX_UPLOAD_MB"); v != "" {
		mb, err := strconv.Atoi(v)
		if err != nil || mb <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_MB %q: must be a positive integer", v)
		}
		cfg.MaxUploadBytes = int64(mb) << 20
	}

	if v := getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: use a positive duration like '1h'", v)
		}
		cfg.SessionTTL = d
	}

	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
