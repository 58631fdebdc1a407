package transcript

import "context"

// Provider fetches the full caption text of a single video.
//
// Implementations classify failures with the domain error kinds:
// domain.ErrTranscriptsDisabled when the video exposes no usable caption
// tracks, domain.ErrEmptyTranscript when a track exists but renders no
// text, and domain.ErrFetch for transport or upstream failures.
type Provider interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}
