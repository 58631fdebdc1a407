package index

import "github.com/mfdez/tubeqa/internal/domain"

// SplitText splits text into retrieval chunks of at most size runes, each
// adjacent pair overlapping by exactly overlap runes. The final chunk covers
// the remainder of the input and may be shorter. The whole input is covered
// with no gaps: concatenating the chunks with the overlap removed from every
// chunk after the first reconstructs the input exactly.
//
// Sizes are counted in runes so multi-byte text never splits mid-character.
// Deterministic: identical input and parameters produce an identical sequence.
// Degenerate parameters (size <= 0, overlap < 0, overlap >= size) fall back
// to a single chunk holding the whole input.
func SplitText(text string, size, overlap int) []domain.Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if size <= 0 || overlap < 0 || overlap >= size || len(runes) <= size {
		return []domain.Chunk{{Text: text}}
	}

	stride := size - overlap
	chunks := make([]domain.Chunk, 0, (len(runes)-overlap+stride-1)/stride)
	for start := 0; ; start += stride {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, domain.Chunk{Text: string(runes[start:])})
			break
		}
		chunks = append(chunks, domain.Chunk{Text: string(runes[start:end])})
	}
	return chunks
}
