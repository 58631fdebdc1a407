package service

import (
	"fmt"

	"github.com/mfdez/tubeqa/internal/config"
)

// NewProvider creates the embedding provider and language model named by the
// configuration. Both capabilities come from the same provider instance, so
// one API key covers the whole pipeline.
//
// Parameters:
//   - cfg: provider selection, credentials, and model names.
//   - retrieval: batch and concurrency tuning for document embedding.
//
// Returns:
//   - EmbeddingProvider: document and query embedding capability.
//   - LanguageModel: answer generation capability.
//   - error: non-nil for an unknown provider name.
func NewProvider(cfg *config.ProviderConfig, retrieval *config.RetrievalConfig) (EmbeddingProvider, LanguageModel, error) {
	switch cfg.Name {
	case config.ProviderGemini:
		p := NewGeminiProvider(&GeminiConfig{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			EmbeddingModel: cfg.EmbeddingModel,
			Model:          cfg.Model,
			TimeoutSeconds: cfg.TimeoutSeconds,
			BatchSize:      retrieval.EmbedBatchSize,
			Concurrency:    retrieval.EmbedConcurrency,
		})
		return p, p, nil

	case config.ProviderOpenAI:
		p := NewOpenAIProvider(&OpenAIConfig{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			EmbeddingModel: cfg.EmbeddingModel,
			Model:          cfg.Model,
			TimeoutSeconds: cfg.TimeoutSeconds,
			BatchSize:      retrieval.EmbedBatchSize,
		})
		return p, p, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
}
