package service

import (
	"context"

	"github.com/mfdez/tubeqa/internal/index"
)

// EmbeddingProvider produces vector embeddings. Document and query
// embeddings carry provider-side task hints so both ends of the similarity
// comparison live in the same vector space. Failures wrap
// domain.ErrEmbedding.
type EmbeddingProvider interface {
	// EmbedDocuments embeds the given texts, one vector per text, in input
	// order. All-or-nothing: a partial provider failure fails the whole call.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float64, error)

	// EmbedQuery embeds a single search query.
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
}

// LanguageModel turns a fully rendered prompt into an answer. Failures wrap
// domain.ErrGeneration. Implementations do not retry: the caller sees the
// first failure.
type LanguageModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// IndexCache stores per-video retrieval indexes. Lookups never fail: an
// expired or evicted entry is simply a miss and the caller rebuilds.
type IndexCache interface {
	Get(videoID string) (*index.Index, bool)
	Put(videoID string, idx *index.Index)
}
