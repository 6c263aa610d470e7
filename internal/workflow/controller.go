package workflow

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// DefaultVariants is how many headshot variants one generation produces.
const DefaultVariants = 4

// Options configures a Controller. Store, Generator, and Session are
// required; the rest fall back to sane defaults.
type Options struct {
	Store      BlobStore
	Generator  Generator
	Session    SessionProvider
	HTTPClient Doer
	Logger     zerolog.Logger

	// Variants per generation call; DefaultVariants when zero.
	Variants int
	// MaxUploadBytes caps submitted photos; domain.MaxUploadBytes when zero.
	MaxUploadBytes int64
	// ResultCap bounds the retained result list; zero keeps it unbounded.
	ResultCap int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Controller owns the transient upload-and-generate state for one session:
// the selected photo, the selected style, the single in-flight generation
// flag, and the accumulated results (newest-first). All remote work goes
// through the injected capabilities so the controller is testable in
// isolation.
type Controller struct {
	store      BlobStore
	generator  Generator
	session    SessionProvider
	httpClient Doer
	logger     zerolog.Logger

	variants  int
	maxBytes  int64
	resultCap int
	now       func() time.Time

	mu            sync.Mutex
	selectedFile  *domain.UploadCandidate
	preview       *domain.Preview
	selectedStyle string
	generating    bool
	results       []domain.Headshot

	previewWG   sync.WaitGroup
	unsubscribe func()
}

// NewController wires a controller around the given capabilities. It
// subscribes to auth-state changes and resets itself when the identity
// switches; Close releases the subscription.
func NewController(opts Options) (*Controller, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("workflow: blob store is required")
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("workflow: image generator is required")
	}
	if opts.Session == nil {
		return nil, fmt.Errorf("workflow: session provider is required")
	}

	c := &Controller{
		store:      opts.Store,
		generator:  opts.Generator,
		session:    opts.Session,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		variants:   opts.Variants,
		maxBytes:   opts.MaxUploadBytes,
		resultCap:  opts.ResultCap,
		now:        opts.Now,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if c.variants <= 0 {
		c.variants = DefaultVariants
	}
	if c.maxBytes <= 0 {
		c.maxBytes = domain.MaxUploadBytes
	}
	if c.now == nil {
		c.now = time.Now
	}

	user := c.session.CurrentUser()
	c.unsubscribe = c.session.OnAuthChange(func(next domain.User) {
		if next.ID != user.ID {
			user = next
			c.Reset()
		}
	})

	return c, nil
}

// Close releases the auth-state subscription. Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	unsub := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// SubmitUpload validates and stores the candidate photo. Oversized files are
// rejected before any network access and leave prior state untouched. A
// successful submission replaces the previous candidate wholesale and starts
// an asynchronous preview decode whose failure is non-fatal.
func (c *Controller) SubmitUpload(ctx context.Context, upload domain.UploadCandidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if upload.Size == 0 {
		upload.Size = int64(len(upload.Data))
	}
	if upload.Size > c.maxBytes {
		return fmt.Errorf("%w: file too large (%d bytes, limit %d)", domain.ErrValidation, upload.Size, c.maxBytes)
	}
	if len(upload.Data) == 0 {
		return fmt.Errorf("%w: empty file", domain.ErrValidation)
	}
	if !strings.HasPrefix(upload.MIME, "image/") {
		return fmt.Errorf("%w: unsupported media type %q", domain.ErrValidation, upload.MIME)
	}

	c.mu.Lock()
	c.selectedFile = &upload
	c.preview = nil
	c.mu.Unlock()

	c.previewWG.Add(1)
	go c.decodePreview(upload)

	return nil
}

func (c *Controller) decodePreview(upload domain.UploadCandidate) {
	defer c.previewWG.Done()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(upload.Data))
	if err != nil {
		c.logger.Debug().Err(err).Str("name", upload.Name).Msg("workflow: preview decode failed")
		return
	}
	c.mu.Lock()
	if c.selectedFile != nil && c.selectedFile.Name == upload.Name {
		c.preview = &domain.Preview{Width: cfg.Width, Height: cfg.Height}
	}
	c.mu.Unlock()
}

// SelectStyle records the style preset to use for the next generation.
func (c *Controller) SelectStyle(id string) error {
	if _, ok := domain.StyleByID(id); !ok {
		return fmt.Errorf("%w: unknown style %q", domain.ErrValidation, id)
	}
	c.mu.Lock()
	c.selectedStyle = id
	c.mu.Unlock()
	return nil
}

// Generate runs the two remote calls in sequence: upload the selected photo
// to the blob store, then request variants from the image generator. The
// returned batch is prepended to the result list atomically; on any failure
// the list is left exactly as it was. Only one generation may be in flight at
// a time and the in-flight flag is released on every termination path.
func (c *Controller) Generate(ctx context.Context) ([]domain.Headshot, error) {
	c.mu.Lock()
	if c.selectedFile == nil || c.selectedStyle == "" {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: missing upload or style", domain.ErrPrecondition)
	}
	if c.generating {
		c.mu.Unlock()
		return nil, domain.ErrInFlight
	}
	c.generating = true
	file := *c.selectedFile
	styleID := c.selectedStyle
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.generating = false
		c.mu.Unlock()
	}()

	style, _ := domain.StyleByID(styleID)
	user := c.session.CurrentUser()

	key := storageKey(user, file, c.now())
	sourceURL, err := c.store.Upload(ctx, key, file.Data, file.MIME, true)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("workflow: source upload failed")
		return nil, fmt.Errorf("%w: %s", domain.ErrStorage, err)
	}

	urls, err := c.generator.Generate(ctx, GenerateRequest{
		SourceURLs: []string{sourceURL},
		Prompt:     BuildPrompt(style),
		Quality:    QualityHD,
		Count:      c.variants,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("style", style.ID).Msg("workflow: generation failed")
		return nil, fmt.Errorf("%w: %s", domain.ErrGeneration, err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no variants returned", domain.ErrGeneration)
	}

	now := c.now()
	batch := make([]domain.Headshot, len(urls))
	for i, u := range urls {
		batch[i] = domain.Headshot{
			ID:        fmt.Sprintf("%d-%d", now.UnixNano(), i),
			URL:       u,
			StyleID:   style.ID,
			CreatedAt: now,
		}
	}

	c.mu.Lock()
	c.results = append(batch, c.results...)
	if c.resultCap > 0 && len(c.results) > c.resultCap {
		c.results = c.results[:c.resultCap]
	}
	c.mu.Unlock()

	c.logger.Info().
		Str("style", style.ID).
		Int("variants", len(batch)).
		Msg("workflow: generation succeeded")

	return batch, nil
}

// Attachment is a downloaded result ready to be saved locally.
type Attachment struct {
	Name string
	MIME string
	Data []byte
}

// Download fetches the bytes behind a result URL. Failures are local to the
// download action and never affect results or future generations.
func (c *Controller) Download(ctx context.Context, url, suggestedName string) (*Attachment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDownload, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDownload, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d", domain.ErrDownload, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDownload, err)
	}
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if suggestedName == "" {
		suggestedName = "headshot" + extensionForMIME(mimeType)
	}
	return &Attachment{Name: suggestedName, MIME: mimeType, Data: data}, nil
}

// Results returns a copy of the accumulated headshots, newest-first.
func (c *Controller) Results() []domain.Headshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Headshot, len(c.results))
	copy(out, c.results)
	return out
}

// Selected returns the current upload candidate and style id, if any.
func (c *Controller) Selected() (*domain.UploadCandidate, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selectedFile == nil {
		return nil, c.selectedStyle
	}
	file := *c.selectedFile
	return &file, c.selectedStyle
}

// Preview returns decoded dimensions of the current candidate, or nil when
// decoding has not finished or failed.
func (c *Controller) Preview() *domain.Preview {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.preview == nil {
		return nil
	}
	p := *c.preview
	return &p
}

// Generating reports whether a generation is in flight.
func (c *Controller) Generating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generating
}

// Reset discards the candidate, style selection, and accumulated results.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.selectedFile = nil
	c.preview = nil
	c.selectedStyle = ""
	c.results = nil
	c.mu.Unlock()
}

func storageKey(user domain.User, file domain.UploadCandidate, now time.Time) string {
	owner := user.ID
	if owner == "" {
		owner = "anonymous"
	}
	return fmt.Sprintf("uploads/%s/%d%s", owner, now.UnixNano(), extensionForMIME(file.MIME))
}

func extensionForMIME(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0])) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
