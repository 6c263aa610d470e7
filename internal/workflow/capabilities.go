package workflow

import (
	"context"
	"net/http"

	"server/internal/domain"
)

// Quality selects the rendering tier requested from the image generator.
type Quality string

const (
	QualityStandard Quality = "standard"
	QualityHD       Quality = "hd"
)

// GenerateRequest is the normalized request handed to an image generator.
type GenerateRequest struct {
	SourceURLs []string
	Prompt     string
	Quality    Quality
	Count      int
}

// BlobStore stores an uploaded photo and returns a publicly fetchable URL.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string, overwrite bool) (string, error)
}

// Generator produces result URLs from source images plus a text prompt.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) ([]string, error)
}

// SessionProvider exposes the current user identity and auth-state change
// notifications. The controller only reads the identity; it never manages the
// session lifecycle. OnAuthChange returns a disposer that must be called on
// teardown.
type SessionProvider interface {
	CurrentUser() domain.User
	OnAuthChange(fn func(domain.User)) (unsubscribe func())
}

// Doer abstracts the HTTP client used to fetch result bytes for download.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
