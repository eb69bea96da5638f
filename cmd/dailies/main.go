// Command dailies converts gptel chat exports to org files and analyzes
// them: token statistics, LLM-extracted insights and semantic search over
// a Postgres store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quietloop/dailies/pkg/config"
	"github.com/quietloop/dailies/pkg/llm/openai"
	"github.com/quietloop/dailies/pkg/logging"
	"github.com/quietloop/dailies/pkg/store"
)

var version = "0.1.0"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "dailies",
		Short: "Analyze daily gptel conversation logs",
		Long: `Dailies works with org-mode conversation logs written by gptel.

It converts raw chat exports into daily org files, round-trips gptel's
GPTEL_BOUNDS annotations, and loads conversations into Postgres for
statistics, LLM-driven insight extraction and semantic search.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default ~/.dailies/config.yaml)")

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(initDBCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(topicsCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(summarizeCmd())
	rootCmd.AddCommand(embedCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(insightsCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path)
}

// openStore loads config and connects to Postgres. Callers must Close the
// returned store.
func openStore(ctx context.Context) (*store.Store, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	if cfg.DatabaseURL == "" {
		return nil, config.Config{}, fmt.Errorf("database_url not configured (set it in the config file or DAILIES_DATABASE_URL)")
	}
	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, config.Config{}, err
	}
	return st, cfg, nil
}

func newLLMClient(cfg config.Config) (*openai.Client, error) {
	return openai.New(cfg.OpenAIAPIKey,
		openai.WithModel(cfg.ExtractionModel),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
}

func newLogger(component string) *logging.Logger {
	logger, err := logging.New(component)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", err)
	}
	return logger
}
