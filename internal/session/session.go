package session

import (
	"context"
	"log"
	"sync"

	"github.com/bramble-app/bramble-go/internal/authtoken"
)

// State is the authentication lifecycle state.
type State int

const (
	// StateLoading is the initial state; protected surfaces must wait until
	// Initialize resolves it to one of the other two.
	StateLoading State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Hooks are fired on every transition into and out of the authenticated
// state. The wiring layer uses them to create and destroy the realtime
// channel, so a credential change always yields a fresh connection.
type Hooks struct {
	OnAuthenticated func(token string)
	OnSignedOut     func()
}

// Manager owns the session credential and its derived identity. It is the
// single writer of the credential: every other component reads it through
// Token().
type Manager struct {
	store *authtoken.Store
	hooks Hooks

	mu       sync.RWMutex
	state    State
	token    string
	identity authtoken.Claims
}

func NewManager(store *authtoken.Store, hooks Hooks) *Manager {
	return &Manager{store: store, hooks: hooks, state: StateLoading}
}

// Initialize resolves the initial Loading state from persisted storage.
// Storage failures resolve to Anonymous rather than crashing bootstrap.
func (m *Manager) Initialize(ctx context.Context) {
	token, err := m.store.Load(ctx)
	if err != nil {
		log.Printf("[auth] failed to load token: %v", err)
		token = ""
	}

	if token == "" {
		m.mu.Lock()
		m.state = StateAnonymous
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.token = token
	// Unreadable claims do not invalidate the credential itself
	m.identity = authtoken.ParseClaims(token)
	m.mu.Unlock()

	if m.hooks.OnAuthenticated != nil {
		m.hooks.OnAuthenticated(token)
	}
}

// SetCredential normalizes, persists and adopts a new credential, replacing
// any prior one. The old session's realtime connection is destroyed before
// the new one is created; connections never survive a credential change.
func (m *Manager) SetCredential(raw string) error {
	token, err := m.store.Save(raw)
	if err != nil {
		return err
	}

	m.mu.Lock()
	wasAuthenticated := m.state == StateAuthenticated
	m.state = StateAuthenticated
	m.token = token
	m.identity = authtoken.ParseClaims(token)
	m.mu.Unlock()

	if wasAuthenticated && m.hooks.OnSignedOut != nil {
		m.hooks.OnSignedOut()
	}
	if m.hooks.OnAuthenticated != nil {
		m.hooks.OnAuthenticated(token)
	}
	return nil
}

// ClearCredential removes the persisted credential and drops the session.
func (m *Manager) ClearCredential() error {
	if err := m.store.Clear(); err != nil {
		return err
	}

	m.mu.Lock()
	wasAuthenticated := m.state == StateAuthenticated
	m.state = StateAnonymous
	m.token = ""
	m.identity = nil
	m.mu.Unlock()

	if wasAuthenticated && m.hooks.OnSignedOut != nil {
		m.hooks.OnSignedOut()
	}
	return nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Token returns the current credential, or "" when anonymous. Satisfies the
// API client's TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Identity returns the claims decoded from the credential. May be nil even
// while authenticated, when the payload segment was unreadable.
func (m *Manager) Identity() authtoken.Claims {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity
}

// UserID returns the local user's id claim, or "" when unknown.
func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity.UserID()
}
