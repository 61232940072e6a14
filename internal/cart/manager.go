package cart

import (
	"context"
	"sync"

	"github.com/Saeid202/buyers/internal/cart/storage"
)

// Manager hands out one Store per browser session, hydrating lazily on
// first touch. Stores themselves are lock-free single-writer state; the
// manager serializes all access per session so concurrent requests from
// the same session cannot interleave mid-transition.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	newSlot  func(sessionID string) storage.Slot
}

type session struct {
	mu    sync.Mutex
	store *Store
}

func NewManager(newSlot func(sessionID string) storage.Slot) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		newSlot:  newSlot,
	}
}

// Do runs fn against the session's store, creating and hydrating the store
// on first use. Calls for the same session run one at a time.
func (m *Manager) Do(ctx context.Context, sessionID string, fn func(*Store)) {
	s := m.session(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		s.store = NewStore(ctx, m.newSlot(sessionID))
	}
	fn(s.store)
}

func (m *Manager) session(sessionID string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		s = &session{}
		m.sessions[sessionID] = s
	}
	return s
}
