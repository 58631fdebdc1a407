package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/mfdez/tubeqa/internal/domain"
)

// Embedder is the slice of the embedding provider the index builder needs.
// The full provider interface lives with the services; this keeps the index
// package independent of any concrete provider.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float64, error)
}

// Index is an immutable in-memory similarity index over transcript chunks.
// Chunks and embeddings are parallel slices in original chunk order. Once
// built, an Index is never mutated; rebuilds replace it wholesale in the
// cache. Search is safe for concurrent use.
type Index struct {
	chunks     []domain.Chunk
	embeddings [][]float64
	dimension  int
}

// Build embeds every chunk and assembles the index. All-or-nothing: any
// embedding failure aborts the build and no partial index is returned.
func Build(ctx context.Context, chunks []domain.Chunk, embedder Embedder) (*Index, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks to index")
	}

	vectors, err := embedder.EmbedDocuments(ctx, domain.ChunkTexts(chunks))
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks", domain.ErrEmbedding, len(vectors), len(chunks))
	}

	dimension := len(vectors[0])
	if dimension == 0 {
		return nil, fmt.Errorf("%w: provider returned empty vectors", domain.ErrEmbedding)
	}
	for i, vec := range vectors {
		if len(vec) != dimension {
			return nil, fmt.Errorf("%w: chunk %d has dimension %d, want %d", domain.ErrEmbedding, i, len(vec), dimension)
		}
	}

	return &Index{
		chunks:     chunks,
		embeddings: vectors,
		dimension:  dimension,
	}, nil
}

// Search returns up to k chunks ranked by descending cosine similarity to
// the query embedding. Ties keep original chunk order. k <= 0 or an empty
// index yields no results.
func (idx *Index) Search(queryEmbedding []float64, k int) []domain.Chunk {
	if k <= 0 || len(idx.chunks) == 0 {
		return nil
	}

	type scored struct {
		position int
		score    float64
	}
	results := make([]scored, len(idx.chunks))
	for i, emb := range idx.embeddings {
		results[i] = scored{position: i, score: cosineSimilarity(queryEmbedding, emb)}
	}

	// Stable sort so equal scores preserve chunk order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}
	top := make([]domain.Chunk, k)
	for i := 0; i < k; i++ {
		top[i] = idx.chunks[results[i].position]
	}
	return top
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Dimension returns the embedding dimension of the index.
func (idx *Index) Dimension() int {
	return idx.dimension
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Mismatched lengths or zero-norm vectors score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
