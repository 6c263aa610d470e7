package image

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/providers/genai"
	"server/internal/workflow"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Upload(ctx context.Context, key string, data []byte, contentType string, overwrite bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.objects[key] = data
	return "https://cdn.example.com/" + key, nil
}

func newGeminiBackend(t *testing.T, parts []map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{{"content": map[string]any{"parts": parts}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGenerator(t *testing.T, srv *httptest.Server, store BlobStore) *GeminiGenerator {
	t.Helper()
	client, err := genai.NewClient(genai.Options{
		APIKey:     "k",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Logger:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("genai.NewClient() error = %v", err)
	}
	return NewGeminiGenerator(client, store, zerolog.Nop())
}

func TestGeminiGeneratorPersistsInlineVariants(t *testing.T) {
	inline := func(mime string) map[string]any {
		return map[string]any{"inlineData": map[string]string{
			"mimeType": mime,
			"data":     base64.StdEncoding.EncodeToString([]byte("img-" + mime)),
		}}
	}
	srv := newGeminiBackend(t, []map[string]any{inline("image/png"), inline("image/jpeg")})
	store := newMemStore()
	gen := newGenerator(t, srv, store)

	urls, err := gen.Generate(context.Background(), workflow.GenerateRequest{
		SourceURLs: []string{"https://store/src.jpg"},
		Prompt:     "make it professional",
		Quality:    workflow.QualityHD,
		Count:      2,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("urls = %d, want 2", len(urls))
	}
	if !strings.HasSuffix(urls[0], ".png") || !strings.HasSuffix(urls[1], ".jpg") {
		t.Fatalf("urls = %v, want extensions matching MIME types", urls)
	}
	if len(store.objects) != 2 {
		t.Fatalf("stored objects = %d, want 2", len(store.objects))
	}
}

func TestGeminiGeneratorPassesThroughReferencedVariants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Reference a file hosted elsewhere; the generator should not fetch
		// and re-store what is already publicly addressable.
		if strings.Contains(r.URL.Path, "generateContent") {
			resp := map[string]any{
				"candidates": []map[string]any{{"content": map[string]any{"parts": []map[string]any{
					{"fileData": map[string]string{"mimeType": "image/png", "fileUri": "https://files.example.com/out.png"}},
				}}}},
			}
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("fetched"))
	}))
	defer srv.Close()

	store := newMemStore()
	gen := newGenerator(t, srv, store)

	urls, err := gen.Generate(context.Background(), workflow.GenerateRequest{Prompt: "p", Count: 1})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://files.example.com/out.png" {
		t.Fatalf("urls = %v, want the referenced url passed through", urls)
	}
	if len(store.objects) != 0 {
		t.Fatalf("stored objects = %d, want 0", len(store.objects))
	}
}

func TestGeminiGeneratorPropagatesStoreFailure(t *testing.T) {
	inline := map[string]any{"inlineData": map[string]string{
		"mimeType": "image/png",
		"data":     base64.StdEncoding.EncodeToString([]byte("img")),
	}}
	srv := newGeminiBackend(t, []map[string]any{inline})
	store := newMemStore()
	store.err = errors.New("disk full")
	gen := newGenerator(t, srv, store)

	if _, err := gen.Generate(context.Background(), workflow.GenerateRequest{Prompt: "p", Count: 1}); err == nil {
		t.Fatal("Generate() succeeded despite store failure")
	}
}
