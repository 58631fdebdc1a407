package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mfdez/tubeqa/internal/domain"
)

func newTestGemini(baseURL string) *GeminiProvider {
	return NewGeminiProvider(&GeminiConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		EmbeddingModel: "embed-test",
		Model:          "gen-test",
		BatchSize:      2,
		Concurrency:    2,
	})
}

func TestGeminiEmbedDocuments(t *testing.T) {
	var mu sync.Mutex
	var requests []geminiBatchEmbedRequest
	var apiKeys []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/embed-test:batchEmbedContents" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req geminiBatchEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		mu.Lock()
		requests = append(requests, req)
		apiKeys = append(apiKeys, r.Header.Get("x-goog-api-key"))
		mu.Unlock()

		// Vector value = text length, so placement can be checked no matter
		// which batch finished first.
		var resp geminiBatchEmbedResponse
		for _, rq := range req.Requests {
			n := float64(len(rq.Content.Parts[0].Text))
			resp.Embeddings = append(resp.Embeddings, geminiEmbedding{Values: []float64{n}})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	got, err := newTestGemini(srv.URL).EmbedDocuments(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedDocuments() error = %v", err)
	}

	if len(got) != len(texts) {
		t.Fatalf("EmbedDocuments() returned %d vectors, want %d", len(got), len(texts))
	}
	for i := range texts {
		if len(got[i]) != 1 || got[i][0] != float64(i+1) {
			t.Errorf("vector %d = %v, want [%d]", i, got[i], i+1)
		}
	}

	// 5 texts at batch size 2 means 3 requests.
	if len(requests) != 3 {
		t.Errorf("server saw %d requests, want 3", len(requests))
	}
	for i, req := range requests {
		if apiKeys[i] != "test-key" {
			t.Errorf("request %d api key = %q, want %q", i, apiKeys[i], "test-key")
		}
		for _, rq := range req.Requests {
			if rq.Model != "models/embed-test" {
				t.Errorf("request model = %q, want %q", rq.Model, "models/embed-test")
			}
			if rq.TaskType != taskTypeDocument {
				t.Errorf("request taskType = %q, want %q", rq.TaskType, taskTypeDocument)
			}
		}
	}
}

func TestGeminiEmbedDocuments_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "message": "quota exhausted", "status": "RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	_, err := newTestGemini(srv.URL).EmbedDocuments(context.Background(), []string{"a", "b"})
	if err == nil {
		t.Fatal("EmbedDocuments() expected error, got nil")
	}
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Errorf("EmbedDocuments() error = %v, want kind %v", err, domain.ErrEmbedding)
	}
	if !strings.Contains(err.Error(), "quota exhausted") {
		t.Errorf("EmbedDocuments() error = %v, want upstream message included", err)
	}
}

func TestGeminiEmbedDocuments_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"embeddings": [{"values": [0.1]}]}`))
	}))
	defer srv.Close()

	_, err := newTestGemini(srv.URL).EmbedDocuments(context.Background(), []string{"a", "b"})
	if err == nil {
		t.Fatal("EmbedDocuments() expected error, got nil")
	}
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Errorf("EmbedDocuments() error = %v, want kind %v", err, domain.ErrEmbedding)
	}
}

func TestGeminiEmbedQuery(t *testing.T) {
	var gotReq geminiEmbedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/embed-test:embedContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"embedding": {"values": [0.25, 0.75]}}`))
	}))
	defer srv.Close()

	got, err := newTestGemini(srv.URL).EmbedQuery(context.Background(), "why is the sky blue?")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if len(got) != 2 || got[0] != 0.25 || got[1] != 0.75 {
		t.Errorf("EmbedQuery() = %v, want [0.25 0.75]", got)
	}
	if gotReq.TaskType != taskTypeQuery {
		t.Errorf("request taskType = %q, want %q", gotReq.TaskType, taskTypeQuery)
	}
	if gotReq.Content.Parts[0].Text != "why is the sky blue?" {
		t.Errorf("request text = %q, want the query", gotReq.Content.Parts[0].Text)
	}
}

func TestGeminiGenerate(t *testing.T) {
	var gotReq geminiGenerateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gen-test:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "The sky "}, {"text": "is blue."}]}, "finishReason": "STOP"}]}`))
	}))
	defer srv.Close()

	got, err := newTestGemini(srv.URL).Generate(context.Background(), "some prompt")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "The sky is blue." {
		t.Errorf("Generate() = %q, want joined candidate parts", got)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "some prompt" {
		t.Errorf("request contents = %+v, want the prompt", gotReq.Contents)
	}
}

func TestGeminiGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"upstream error", http.StatusInternalServerError, `{"error": {"code": 500, "message": "internal"}}`},
		{"no candidates", http.StatusOK, `{"candidates": []}`},
		{"safety blocked", http.StatusOK, `{"candidates": [{"content": {"parts": []}, "finishReason": "SAFETY"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestGemini(srv.URL).Generate(context.Background(), "prompt")
			if err == nil {
				t.Fatal("Generate() expected error, got nil")
			}
			if !errors.Is(err, domain.ErrGeneration) {
				t.Errorf("Generate() error = %v, want kind %v", err, domain.ErrGeneration)
			}
		})
	}
}
