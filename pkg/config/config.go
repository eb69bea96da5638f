// Package config loads dailies settings from ~/.dailies/config.yaml with
// environment variable overrides. A missing config file is not an error; all
// fields have workable defaults except the database URL and API key, which
// the commands that need them validate at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings.
type Config struct {
	// DatabaseURL is the Postgres connection string used by the store.
	DatabaseURL string `yaml:"database_url"`

	// OpenAIAPIKey authorizes extraction, summarization and embeddings.
	OpenAIAPIKey string `yaml:"openai_api_key"`

	// ExtractionModel runs insight extraction and summarization.
	ExtractionModel string `yaml:"extraction_model"`

	// EmbeddingModel produces vectors for semantic search.
	EmbeddingModel string `yaml:"embedding_model"`

	// Port is the HTTP API port for the serve command.
	Port int `yaml:"port"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".dailies", "config.yaml"), nil
}

// Load reads the config file at path (the default location when path is
// empty), applies defaults and environment overrides, and returns the result.
func Load(path string) (Config, error) {
	cfg := Config{
		ExtractionModel: "gpt-4o",
		EmbeddingModel:  "text-embedding-3-small",
		Port:            8780,
	}

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults plus environment only.
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("DAILIES_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("DAILIES_EXTRACTION_MODEL"); v != "" {
		cfg.ExtractionModel = v
	}
	if v := os.Getenv("DAILIES_EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}

	return cfg, nil
}
