package domain

import "errors"

// Pipeline error kinds. Raise sites wrap these with fmt.Errorf("%w: ...", ...)
// so the HTTP layer can classify failures with errors.Is and pick the status
// code without inspecting provider-specific error types.
var (
	// ErrTranscriptsDisabled means the video exists but exposes no transcript
	// tracks at all. A client error: asking again will not help.
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")

	// ErrEmptyTranscript means a transcript track was found but produced no
	// text. Treated as resource-absent rather than a provider failure.
	ErrEmptyTranscript = errors.New("no transcript available for this video")

	// ErrFetch covers upstream/network failures while retrieving a transcript.
	ErrFetch = errors.New("transcript fetch failed")

	// ErrEmbedding covers failures of the external embedding provider, for
	// both document and query embeddings.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration covers failures of the language model call.
	ErrGeneration = errors.New("generation failed")
)
