// Package session owns the client's authentication token and its lifecycle.
// There is exactly one session per running client; the token is the only
// mutable state read by every outgoing request.
package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/etec-programacion-3/electrotech-client/pkg/tokenstore"
)

// Manager holds the current token, persists it through a tokenstore.Store,
// and fans out resets to dependent state when the session ends.
//
// Clear is the only path back to the unauthenticated state. Invalidate is the
// variant used by the unauthorized-response path: it is a no-op once the
// session is already gone, so N concurrent in-flight requests failing with
// the same expired token clear the session exactly once.
type Manager struct {
	store tokenstore.Store
	lg    *zap.Logger

	mu      sync.Mutex
	token   string
	onClear []func()
}

// NewManager creates a Manager and loads any persisted token. A load failure
// degrades to an unauthenticated session rather than failing construction.
func NewManager(store tokenstore.Store, lg *zap.Logger) *Manager {
	m := &Manager{store: store, lg: lg}
	tok, err := store.Load()
	if err != nil {
		lg.Warn("Loading persisted token failed, starting unauthenticated", zap.Error(err))
		return m
	}
	m.token = tok
	return m
}

// OnClear registers a hook run whenever the session is cleared. Hooks reset
// dependent state: catalog results, cart, order history, filter, view mode.
// Registration is expected to happen during wiring, before concurrent use.
func (m *Manager) OnClear(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClear = append(m.onClear, fn)
}

// Token returns the current token and whether one is present.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

// SetToken installs and persists a freshly issued token.
func (m *Manager) SetToken(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return m.store.Save(token)
}

// Clear erases the token, removes it from durable storage, and runs the
// registered reset hooks. Safe to call when already unauthenticated.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.token = ""
	hooks := m.onClear
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.lg.Warn("Clearing persisted token failed", zap.Error(err))
	}
	for _, fn := range hooks {
		fn()
	}
}

// Invalidate clears the session in response to an authorization failure.
// It only acts when a token is still held, so concurrent failures from
// in-flight requests trigger the reset exactly once.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return
	}
	m.token = ""
	hooks := m.onClear
	m.mu.Unlock()

	m.lg.Info("Session invalidated by authorization failure")
	if err := m.store.Clear(); err != nil {
		m.lg.Warn("Clearing persisted token failed", zap.Error(err))
	}
	for _, fn := range hooks {
		fn()
	}
}
