package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/orderflow/orderflow/internal/engine"
	"github.com/orderflow/orderflow/internal/llm"
	"github.com/orderflow/orderflow/internal/storage"
)

// defaultDBPath returns the database location, honoring database.path from
// the config.
func defaultDBPath() (string, error) {
	if path := viper.GetString("database.path"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "orderflow", "orderflow.db"), nil
}

// initStorage opens the store and applies pending migrations.
func initStorage(ctx context.Context) (*storage.Store, error) {
	dbPath, err := defaultDBPath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// newSuggester builds the configured suggestion backend. The "mock" provider
// runs offline with deterministic keyword categories.
func newSuggester(ctx context.Context, categories []string) (engine.Suggester, func(), error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "openai"
	}

	if provider == "mock" {
		return engine.NewMockSuggester(), func() {}, nil
	}

	client, err := llm.NewClient(ctx, llm.Config{
		Provider:    provider,
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create suggestion client: %w", err)
	}

	suggester := llm.NewSuggester(client, categories, viper.GetInt("llm.rate_limit"), nil)
	return suggester, suggester.Close, nil
}
