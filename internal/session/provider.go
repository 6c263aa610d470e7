// Package session provides the identity source injected into workflow
// controllers. Providers expose the current user and an auth-change
// subscription whose disposer must be called on teardown.
package session

import (
	"sync"

	"server/internal/domain"
)

// StaticProvider serves a fixed identity that can be swapped with SetUser.
// Suitable for per-request identities and for tests.
type StaticProvider struct {
	mu        sync.Mutex
	user      domain.User
	nextID    int
	listeners map[int]func(domain.User)
}

// NewStaticProvider returns a provider bound to the given user.
func NewStaticProvider(user domain.User) *StaticProvider {
	return &StaticProvider{user: user, listeners: make(map[int]func(domain.User))}
}

// CurrentUser returns the bound identity.
func (p *StaticProvider) CurrentUser() domain.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.user
}

// SetUser swaps the identity and notifies subscribers.
func (p *StaticProvider) SetUser(user domain.User) {
	p.mu.Lock()
	p.user = user
	fns := make([]func(domain.User), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(user)
	}
}

// OnAuthChange registers fn and returns its disposer. Calling the disposer
// more than once is a no-op.
func (p *StaticProvider) OnAuthChange(fn func(domain.User)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}
