package domain

// Chunk is a bounded-length contiguous slice of transcript text used as a
// retrieval unit. Chunks carry no metadata beyond their text; ordering is
// positional (the order the chunker emitted them in).
type Chunk struct {
	Text string `json:"text"`
}

// ChunkTexts extracts the raw text of each chunk, preserving order.
func ChunkTexts(chunks []Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}
