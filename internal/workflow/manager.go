package workflow

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/session"
)

// Manager hands out one Controller per user so the single-flight generation
// guard holds per session. Controllers live for the life of the process;
// results are in-memory only.
type Manager struct {
	store      BlobStore
	generator  Generator
	httpClient Doer
	logger     zerolog.Logger
	variants   int
	maxBytes   int64
	resultCap  int
	now        func() time.Time

	mu          sync.Mutex
	controllers map[string]*Controller
}

// NewManager builds a Manager sharing the given capabilities across all
// per-user controllers.
func NewManager(opts Options) *Manager {
	return &Manager{
		store:       opts.Store,
		generator:   opts.Generator,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		variants:    opts.Variants,
		maxBytes:    opts.MaxUploadBytes,
		resultCap:   opts.ResultCap,
		now:         opts.Now,
		controllers: make(map[string]*Controller),
	}
}

// Get returns the controller for the user, creating it on first use.
func (m *Manager) Get(user domain.User) (*Controller, error) {
	key := user.ID
	if key == "" {
		key = "anonymous"
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.controllers[key]; ok {
		return c, nil
	}
	c, err := NewController(Options{
		Store:          m.store,
		Generator:      m.generator,
		Session:        session.NewStaticProvider(user),
		HTTPClient:     m.httpClient,
		Logger:         m.logger,
		Variants:       m.variants,
		MaxUploadBytes: m.maxBytes,
		ResultCap:      m.resultCap,
		Now:            m.now,
	})
	if err != nil {
		return nil, err
	}
	m.controllers[key] = c
	return c, nil
}

// Close tears down every controller, releasing their subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, c := range m.controllers {
		c.Close()
		delete(m.controllers, key)
	}
}
