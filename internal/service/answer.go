package service

import (
	"context"
	"strings"
	"time"

	"github.com/mfdez/tubeqa/internal/domain"
	"github.com/mfdez/tubeqa/internal/index"
	"github.com/mfdez/tubeqa/internal/logger"
	"github.com/mfdez/tubeqa/internal/prompts"
	"github.com/mfdez/tubeqa/internal/transcript"
)

// AnswerConfig holds tuning for the answer pipeline
type AnswerConfig struct {
	ChunkSize    int // characters per transcript chunk
	ChunkOverlap int // characters shared between adjacent chunks
	TopK         int // chunks retrieved per question
}

// AnswerService runs the question answering pipeline: resolve a retrieval
// index for the video (cached or freshly built), retrieve the most similar
// chunks for the question, and generate a grounded answer.
type AnswerService struct {
	transcripts  transcript.Provider
	embedder     EmbeddingProvider
	model        LanguageModel
	cache        IndexCache
	chunkSize    int
	chunkOverlap int
	topK         int
}

// NewAnswerService creates a new answer service
func NewAnswerService(cfg *AnswerConfig, transcripts transcript.Provider, embedder EmbeddingProvider, model LanguageModel, cache IndexCache) *AnswerService {
	return &AnswerService{
		transcripts:  transcripts,
		embedder:     embedder,
		model:        model,
		cache:        cache,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		topK:         cfg.TopK,
	}
}

// Answer answers a question about a video using only its transcript.
//
// Parameters:
//   - ctx: request context
//   - videoID: the YouTube video ID
//   - query: the user's question
//
// Returns:
//   - The generated answer, whitespace-trimmed
//   - An error wrapping a domain error kind for any failed pipeline stage
func (s *AnswerService) Answer(ctx context.Context, videoID, query string) (string, error) {
	ctx = logger.SetVideoID(ctx, videoID)
	start := time.Now()

	idx, cacheHit, err := s.resolveIndex(ctx, videoID)
	if err != nil {
		return "", err
	}

	queryEmbedding, err := s.embedder.EmbedQuery(logger.SetStage(ctx, "embed_query"), query)
	if err != nil {
		return "", err
	}

	chunks := idx.Search(queryEmbedding, s.topK)
	prompt := prompts.BuildAnswerPrompt(query, domain.ChunkTexts(chunks))

	answer, err := s.model.Generate(logger.SetStage(ctx, "generate"), prompt)
	if err != nil {
		return "", err
	}

	logger.With(logger.Fields{
		logger.FieldComponent: "answer",
		logger.FieldVideoID:   videoID,
	}).WithCacheHit(cacheHit).
		WithCount(len(chunks)).
		WithDuration(time.Since(start).Milliseconds()).
		Info(ctx, "answered question")

	return strings.TrimSpace(answer), nil
}

// resolveIndex returns the video's retrieval index, building and caching it
// on a miss. The second return reports whether the cache served it.
func (s *AnswerService) resolveIndex(ctx context.Context, videoID string) (*index.Index, bool, error) {
	if idx, ok := s.cache.Get(videoID); ok {
		return idx, true, nil
	}

	buildStart := time.Now()

	text, err := s.transcripts.Fetch(logger.SetStage(ctx, "fetch_transcript"), videoID)
	if err != nil {
		return nil, false, err
	}

	chunks := index.SplitText(text, s.chunkSize, s.chunkOverlap)
	idx, err := index.Build(logger.SetStage(ctx, "build_index"), chunks, s.embedder)
	if err != nil {
		return nil, false, err
	}

	s.cache.Put(videoID, idx)

	logger.With(logger.Fields{
		logger.FieldComponent: "answer",
		logger.FieldVideoID:   videoID,
		logger.FieldSize:      len(text),
	}).WithCount(idx.Len()).
		WithDuration(time.Since(buildStart).Milliseconds()).
		Info(ctx, "built transcript index")

	return idx, false, nil
}
