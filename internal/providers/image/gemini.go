// Package image adapts external image-generation services to the workflow's
// Generator capability.
package image

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/providers/genai"
	"server/internal/workflow"
)

// BlobStore is the subset of storage needed to persist generated variants.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string, overwrite bool) (string, error)
}

// GeminiGenerator produces headshot variants through the Gemini API and
// persists each returned image to the blob store so callers receive publicly
// fetchable URLs.
type GeminiGenerator struct {
	client *genai.Client
	store  BlobStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewGeminiGenerator wires the generator around a Gemini client and a store.
func NewGeminiGenerator(client *genai.Client, store BlobStore, logger zerolog.Logger) *GeminiGenerator {
	return &GeminiGenerator{client: client, store: store, logger: logger, now: time.Now}
}

// Generate runs one generation call and returns the stored variant URLs.
// Variants the API returned by reference rather than inline are passed
// through as-is.
func (g *GeminiGenerator) Generate(ctx context.Context, req workflow.GenerateRequest) ([]string, error) {
	assets, err := g.client.GenerateImages(ctx, genai.ImageRequest{
		Prompt:     req.Prompt,
		SourceURLs: req.SourceURLs,
		Quantity:   req.Count,
		Quality:    qualityHint(req.Quality),
	})
	if err != nil {
		return nil, err
	}

	batch := g.now().UnixNano()
	urls := make([]string, 0, len(assets))
	for i, asset := range assets {
		if asset.URL != "" {
			urls = append(urls, asset.URL)
			continue
		}
		key := fmt.Sprintf("results/%d/%02d%s", batch, i+1, extensionForMIME(asset.MIME))
		url, err := g.store.Upload(ctx, key, asset.Data, asset.MIME, false)
		if err != nil {
			return nil, fmt.Errorf("persist variant %d: %w", i+1, err)
		}
		urls = append(urls, url)
	}

	g.logger.Debug().
		Str("model", g.client.Model()).
		Int("variants", len(urls)).
		Msg("image: gemini generation stored")

	return urls, nil
}

func qualityHint(q workflow.Quality) string {
	if q == workflow.QualityHD {
		return "high definition"
	}
	return string(q)
}

func extensionForMIME(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0])) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

var _ workflow.Generator = (*GeminiGenerator)(nil)
