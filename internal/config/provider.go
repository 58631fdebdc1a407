package config

import (
	"fmt"
	"os"
)

// Provider names accepted by the factory in internal/service.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ProviderConfig defines the language-model/embedding provider the service
// talks to. Both the embedding calls and the generation calls go to the same
// provider with the same API key.
type ProviderConfig struct {
	Name           string `mapstructure:"name"`            // Provider type: "gemini" or "openai"
	APIKey         string `mapstructure:"api_key"`         // API key (can be set directly or via env var)
	BaseURL        string `mapstructure:"base_url"`        // API base URL; empty uses the provider default
	EmbeddingModel string `mapstructure:"embedding_model"` // Model for document/query embeddings
	Model          string `mapstructure:"model"`           // Model for answer generation
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // Per-request timeout for provider calls
}

// apiKeyEnv maps a provider name to the environment variable its key is
// conventionally stored in.
func (c *ProviderConfig) apiKeyEnv() string {
	switch c.Name {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "GOOGLE_API_KEY"
	}
}

// ResolveEnvVars fills the API key from the provider's conventional
// environment variable when it was not set directly. Direct values take
// precedence.
func (c *ProviderConfig) ResolveEnvVars() {
	if c.APIKey == "" {
		if val := os.Getenv(c.apiKeyEnv()); val != "" {
			c.APIKey = val
		}
	}
}

// ResolvedBaseURL returns the configured base URL, falling back to the
// provider's public endpoint.
func (c *ProviderConfig) ResolvedBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	switch c.Name {
	case ProviderOpenAI:
		return "https://api.openai.com/v1"
	default:
		return "https://generativelanguage.googleapis.com"
	}
}

// Validate checks that the provider configuration is usable. The API key is
// required: without it the process must refuse to start.
func (c *ProviderConfig) Validate() error {
	switch c.Name {
	case ProviderGemini, ProviderOpenAI:
		// Valid providers
	default:
		return fmt.Errorf("provider: unknown provider %q", c.Name)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("provider %q: embedding_model is required", c.Name)
	}
	if c.Model == "" {
		return fmt.Errorf("provider %q: model is required", c.Name)
	}
	if c.APIKey == "" {
		return fmt.Errorf("provider %q: api_key is required (set directly or via %s)", c.Name, c.apiKeyEnv())
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("provider %q: timeout_seconds must be positive", c.Name)
	}
	return nil
}
