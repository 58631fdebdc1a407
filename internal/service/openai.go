package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mfdez/tubeqa/internal/domain"
)

// OpenAIConfig holds configuration for the OpenAI provider
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	Model          string
	TimeoutSeconds int
	BatchSize      int
}

// OpenAIProvider implements EmbeddingProvider and LanguageModel on top of
// the OpenAI API. Selected with provider.name = "openai".
type OpenAIProvider struct {
	client         *openai.Client
	embeddingModel openai.EmbeddingModel
	model          string
	batchSize      int
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(cfg *OpenAIConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.TimeoutSeconds > 0 {
		clientCfg.HTTPClient = &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		}
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	return &OpenAIProvider{
		client:         openai.NewClientWithConfig(clientCfg),
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		model:          cfg.Model,
		batchSize:      batchSize,
	}
}

// EmbedDocuments embeds texts in input order, at most batchSize per request.
func (p *OpenAIProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts to embed", domain.ErrEmbedding)
	}

	out := make([][]float64, len(texts))
	for start := 0; start < len(texts); start += p.batchSize {
		end := min(start+p.batchSize, len(texts))
		batch := texts[start:end]

		resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: batch,
			Model: p.embeddingModel,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: openai embeddings: %v", domain.ErrEmbedding, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("%w: openai returned %d embeddings for %d texts", domain.ErrEmbedding, len(resp.Data), len(batch))
		}
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(batch) {
				return nil, fmt.Errorf("%w: openai returned embedding index %d out of range", domain.ErrEmbedding, d.Index)
			}
			out[start+d.Index] = toFloat64(d.Embedding)
		}
	}
	return out, nil
}

// EmbedQuery embeds a single query string.
func (p *OpenAIProvider) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Generate produces a completion for the prompt. One attempt, no retry.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai chat completion: %v", domain.ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", domain.ErrGeneration)
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: openai returned an empty completion", domain.ErrGeneration)
	}
	return content, nil
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
