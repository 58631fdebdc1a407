package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mfdez/tubeqa/internal/domain"
)

const (
	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"
)

// GeminiConfig holds configuration for the Gemini provider
type GeminiConfig struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	Model          string
	TimeoutSeconds int
	BatchSize      int // texts per batchEmbedContents call, API max 100
	Concurrency    int // parallel embedding batches
}

// GeminiProvider talks to the Gemini REST API. It implements both
// EmbeddingProvider and LanguageModel so one configured provider serves the
// whole pipeline.
type GeminiProvider struct {
	client         *resty.Client
	baseURL        string
	embeddingModel string
	model          string
	batchSize      int
	concurrency    int
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(cfg *GeminiConfig) *GeminiProvider {
	client := resty.New()
	client.SetHeader("x-goog-api-key", cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	if cfg.TimeoutSeconds > 0 {
		client.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > 100 {
		batchSize = 100
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &GeminiProvider{
		client:         client,
		baseURL:        baseURL,
		embeddingModel: cfg.EmbeddingModel,
		model:          cfg.Model,
		batchSize:      batchSize,
		concurrency:    concurrency,
	}
}

// Gemini API request/response structures
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"taskType,omitempty"`
}

type geminiBatchEmbedRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiEmbedding struct {
	Values []float64 `json:"values"`
}

type geminiBatchEmbedResponse struct {
	Embeddings []geminiEmbedding `json:"embeddings"`
}

type geminiEmbedResponse struct {
	Embedding geminiEmbedding `json:"embedding"`
}

type geminiGenerateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (e *geminiErrorResponse) message(statusCode int) string {
	if e.Error.Message != "" {
		return e.Error.Message
	}
	return fmt.Sprintf("status %d", statusCode)
}

func (p *GeminiProvider) modelURL(model, method string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:%s", p.baseURL, model, method)
}

// EmbedDocuments embeds texts in batches of at most batchSize, fanning
// batches out across concurrency workers. Vectors come back in input order.
// Any batch failure fails the whole call.
func (p *GeminiProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts to embed", domain.ErrEmbedding)
	}

	out := make([][]float64, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for start := 0; start < len(texts); start += p.batchSize {
		end := min(start+p.batchSize, len(texts))
		offset, batch := start, texts[start:end]
		g.Go(func() error {
			vectors, err := p.embedBatch(ctx, batch)
			if err != nil {
				return err
			}
			copy(out[offset:], vectors)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *GeminiProvider) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	req := geminiBatchEmbedRequest{
		Requests: make([]geminiEmbedRequest, len(texts)),
	}
	for i, text := range texts {
		req.Requests[i] = geminiEmbedRequest{
			Model:    "models/" + p.embeddingModel,
			Content:  geminiContent{Parts: []geminiPart{{Text: text}}},
			TaskType: taskTypeDocument,
		}
	}

	var resp geminiBatchEmbedResponse
	var apiErr geminiErrorResponse
	httpResp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&apiErr).
		Post(p.modelURL(p.embeddingModel, "batchEmbedContents"))

	if err != nil {
		return nil, fmt.Errorf("%w: gemini batch embed: %v", domain.ErrEmbedding, err)
	}
	if httpResp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: gemini batch embed: %s", domain.ErrEmbedding, apiErr.message(httpResp.StatusCode()))
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: gemini returned %d embeddings for %d texts", domain.ErrEmbedding, len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for i, e := range resp.Embeddings {
		if len(e.Values) == 0 {
			return nil, fmt.Errorf("%w: gemini returned an empty embedding", domain.ErrEmbedding)
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}

// EmbedQuery embeds a single query with the query task hint.
func (p *GeminiProvider) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	req := geminiEmbedRequest{
		Model:    "models/" + p.embeddingModel,
		Content:  geminiContent{Parts: []geminiPart{{Text: text}}},
		TaskType: taskTypeQuery,
	}

	var resp geminiEmbedResponse
	var apiErr geminiErrorResponse
	httpResp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&apiErr).
		Post(p.modelURL(p.embeddingModel, "embedContent"))

	if err != nil {
		return nil, fmt.Errorf("%w: gemini embed query: %v", domain.ErrEmbedding, err)
	}
	if httpResp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: gemini embed query: %s", domain.ErrEmbedding, apiErr.message(httpResp.StatusCode()))
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: gemini returned an empty query embedding", domain.ErrEmbedding)
	}
	return resp.Embedding.Values, nil
}

// Generate produces a completion for the prompt. One attempt, no retry.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	req := geminiGenerateRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}

	var resp geminiGenerateResponse
	var apiErr geminiErrorResponse
	httpResp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&apiErr).
		Post(p.modelURL(p.model, "generateContent"))

	if err != nil {
		return "", fmt.Errorf("%w: gemini generate: %v", domain.ErrGeneration, err)
	}
	if httpResp.StatusCode() != 200 {
		return "", fmt.Errorf("%w: gemini generate: %s", domain.ErrGeneration, apiErr.message(httpResp.StatusCode()))
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", domain.ErrGeneration)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		reason := resp.Candidates[0].FinishReason
		if reason == "" {
			reason = "empty completion"
		}
		return "", fmt.Errorf("%w: gemini returned no text (%s)", domain.ErrGeneration, reason)
	}
	return sb.String(), nil
}
