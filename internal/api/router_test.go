package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mfdez/tubeqa/internal/api/middleware"
	"github.com/mfdez/tubeqa/internal/index"
	"github.com/mfdez/tubeqa/internal/service"
)

const testOrigin = "https://frontend.example.com"

type okTranscripts struct{}

func (okTranscripts) Fetch(ctx context.Context, videoID string) (string, error) {
	return "a transcript", nil
}

type okEmbedder struct{}

func (okEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1}
	}
	return out, nil
}

func (okEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	return []float64{1}, nil
}

type okModel struct{}

func (okModel) Generate(ctx context.Context, prompt string) (string, error) {
	return "ok", nil
}

func newTestRouter() *gin.Engine {
	svc := service.NewAnswerService(&service.AnswerConfig{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TopK:         4,
	}, okTranscripts{}, okEmbedder{}, okModel{}, index.NewCache(time.Minute, 10))

	return SetupRouter(svc, "test", middleware.CORSConfig{AllowedOrigin: testOrigin})
}

func TestRouterRoutes(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/", "", http.StatusOK},
		{"ask", http.MethodPost, "/ask", `{"video_id": "abc", "query": "q?"}`, http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound},
		{"wrong method on ask", http.MethodGet, "/ask", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouterCORS(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name        string
		origin      string
		wantAllowed bool
	}{
		{"configured origin", testOrigin, true},
		{"case insensitive match", "HTTPS://FRONTEND.EXAMPLE.COM", true},
		{"other origin", "https://evil.example.com", false},
		{"no origin", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantAllowed {
				if got != testOrigin {
					t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, testOrigin)
				}
				if creds := w.Header().Get("Access-Control-Allow-Credentials"); creds != "true" {
					t.Errorf("Access-Control-Allow-Credentials = %q, want true", creds)
				}
			} else if got != "" {
				t.Errorf("Access-Control-Allow-Origin = %q for disallowed origin, want unset", got)
			}
		})
	}
}

func TestRouterPreflight(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if methods := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, "POST") {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST included", methods)
	}
}

func TestRouterRequestID(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if id := w.Header().Get("X-Request-ID"); id == "" {
		t.Error("X-Request-ID header not set")
	}
}
