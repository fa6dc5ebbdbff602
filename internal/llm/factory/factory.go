package factory

import (
	"context"
	"fmt"

	"screen2html/internal/config"
	"screen2html/internal/gemini"
	"screen2html/internal/llm"
	"screen2html/internal/ollama"
)

// NewGenerator builds the model backend selected by cfg.Provider
func NewGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.APIKey, cfg.ModelName, cfg.ModelTimeout, cfg.Settings())
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOllama:
		client := ollama.NewClient(cfg.OllamaURL, cfg.ModelName, cfg.ModelTimeout, cfg.Settings())
		if err := client.HealthCheck(); err != nil {
			return nil, err
		}
		if err := client.CheckModel(); err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
