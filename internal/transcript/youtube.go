package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/mfdez/tubeqa/internal/domain"
	"github.com/mfdez/tubeqa/internal/logger"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	playerPath     = "/youtubei/v1/player"

	// The ANDROID client profile returns caption track URLs without the
	// browser attestation (PoToken) the WEB profile demands.
	androidClientName    = "ANDROID"
	androidClientVersion = "20.10.38"
	androidSDKVersion    = 30
	androidUserAgent     = "com.google.android.youtube/" + androidClientVersion + " (Linux; U; Android 11) gzip"

	requestTimeout = 30 * time.Second
)

// Config holds configuration for the YouTube transcript client
type Config struct {
	Language          string  // preferred caption language code
	RequestsPerSecond float64 // upstream rate limit
	ProxyURL          string  // optional rotating proxy, empty = direct
	BaseURL           string  // override for tests, empty = youtube.com
}

// YouTubeClient fetches video transcripts through the Innertube player API:
// one POST resolves the caption track list, one GET downloads the selected
// track as timedtext XML. Implements Provider.
type YouTubeClient struct {
	client   *resty.Client
	language string
	baseURL  string
	limiter  *rate.Limiter
}

// NewYouTubeClient creates a new YouTube transcript client
func NewYouTubeClient(cfg *Config) *YouTubeClient {
	client := resty.New()
	client.SetTimeout(requestTimeout)
	if cfg.ProxyURL != "" {
		client.SetProxy(cfg.ProxyURL)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &YouTubeClient{
		client:   client,
		language: language,
		baseURL:  baseURL,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Innertube player API request/response structures
type playerRequest struct {
	VideoID        string        `json:"videoId"`
	Context        playerContext `json:"context"`
	RacyCheckOk    bool          `json:"racyCheckOk"`
	ContentCheckOk bool          `json:"contentCheckOk"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

// Timedtext XML structures
type timedText struct {
	Lines []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Text string `xml:",chardata"`
}

// Fetch retrieves the transcript for a video and returns it as a single
// space-joined string.
//
// Parameters:
//   - ctx: request context
//   - videoID: the 11-character YouTube video ID
//
// Returns:
//   - The full transcript text
//   - An error wrapping one of the domain transcript error kinds
func (c *YouTubeClient) Fetch(ctx context.Context, videoID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}

	track, err := c.resolveTrack(ctx, videoID)
	if err != nil {
		return "", err
	}

	logger.With(logger.Fields{
		logger.FieldComponent: "transcript",
		logger.FieldVideoID:   videoID,
	}).Debug(ctx, "resolved caption track: lang=%q kind=%q", track.LanguageCode, track.Kind)

	text, err := c.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("%w: track %q rendered no text", domain.ErrEmptyTranscript, track.LanguageCode)
	}
	return text, nil
}

// resolveTrack calls the player endpoint and selects the best caption track.
func (c *YouTubeClient) resolveTrack(ctx context.Context, videoID string) (captionTrack, error) {
	req := playerRequest{
		VideoID: videoID,
		Context: playerContext{
			Client: playerClient{
				ClientName:        androidClientName,
				ClientVersion:     androidClientVersion,
				AndroidSdkVersion: androidSDKVersion,
				Hl:                c.language,
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	}

	var resp playerResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", androidUserAgent).
		SetHeader("X-Youtube-Client-Name", "3").
		SetHeader("X-Youtube-Client-Version", androidClientVersion).
		SetQueryParam("prettyPrint", "false").
		SetBody(req).
		SetResult(&resp).
		Post(c.baseURL + playerPath)

	if err != nil {
		return captionTrack{}, fmt.Errorf("%w: player request: %v", domain.ErrFetch, err)
	}
	if httpResp.StatusCode() != 200 {
		return captionTrack{}, fmt.Errorf("%w: player request: status %d", domain.ErrFetch, httpResp.StatusCode())
	}

	if status := resp.PlayabilityStatus; status != nil && status.Status != "" && status.Status != "OK" {
		reason := status.Reason
		if reason == "" {
			reason = status.Status
		}
		return captionTrack{}, fmt.Errorf("%w: video not playable: %s", domain.ErrFetch, reason)
	}

	if resp.Captions == nil {
		return captionTrack{}, fmt.Errorf("%w: no captions in player response", domain.ErrTranscriptsDisabled)
	}
	tracks := resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return captionTrack{}, fmt.Errorf("%w: empty caption track list", domain.ErrTranscriptsDisabled)
	}

	track, ok := pickBestTrack(tracks, c.language)
	if !ok {
		return captionTrack{}, fmt.Errorf("%w: all caption tracks require browser attestation", domain.ErrFetch)
	}
	return track, nil
}

// needsPoToken reports whether a caption track URL requires browser
// attestation. Tracks tagged &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track: a manual track in the
// preferred language, then an auto-generated one, then any English track,
// then whatever is left.
func pickBestTrack(tracks []captionTrack, lang string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	for _, t := range usable {
		if t.LanguageCode == lang && t.Kind != "asr" {
			return t, true
		}
	}
	for _, t := range usable {
		if t.LanguageCode == lang {
			return t, true
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// fetchTimedText downloads a caption track URL and flattens the timedtext
// XML into plain text: entities unescaped, lines joined with single spaces.
func (c *YouTubeClient) fetchTimedText(ctx context.Context, trackURL string) (string, error) {
	httpResp, err := c.client.R().
		SetContext(ctx).
		Get(trackURL)

	if err != nil {
		return "", fmt.Errorf("%w: caption request: %v", domain.ErrFetch, err)
	}
	if httpResp.StatusCode() != 200 {
		return "", fmt.Errorf("%w: caption request: status %d", domain.ErrFetch, httpResp.StatusCode())
	}

	var tt timedText
	if err := xml.Unmarshal(httpResp.Body(), &tt); err != nil {
		return "", fmt.Errorf("%w: parse captions: %v", domain.ErrFetch, err)
	}

	var sb strings.Builder
	for _, line := range tt.Lines {
		text := strings.Join(strings.Fields(html.UnescapeString(line.Text)), " ")
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
