package memory

import (
	"context"
	"sort"
	"sync"

	"llm-chat-bot/internal/domain"
	"llm-chat-bot/internal/ports/output"
)

// Compile-time check to ensure MemorySessionStore implements SessionStore interface
var _ output.SessionStore = (*MemorySessionStore)(nil)

// MemorySessionStore struct - Output adapter for in-memory session storage
// Uses sync.Map for concurrent access to different sessions. Sessions are created
// lazily and live for the lifetime of the store.
type MemorySessionStore struct {
	sessions sync.Map
}

// sessionEntry guards one session's history
type sessionEntry struct {
	mu      sync.RWMutex
	session *domain.ChatSession
}

// NewMemorySessionStore creates a new in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// entry returns the session entry for the key, creating it on first reference
func (m *MemorySessionStore) entry(sessionID string) *sessionEntry {
	if value, ok := m.sessions.Load(sessionID); ok {
		return value.(*sessionEntry)
	}
	value, _ := m.sessions.LoadOrStore(sessionID, &sessionEntry{session: domain.NewChatSession(sessionID)})
	return value.(*sessionEntry)
}

// GetHistory returns a copy of the session's history
func (m *MemorySessionStore) GetHistory(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	e := m.entry(sessionID)
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.session.GetHistory(), nil
}

// AppendMessages appends messages to the session's history
func (m *MemorySessionStore) AppendMessages(_ context.Context, sessionID string, messages ...domain.ChatMessage) error {
	e := m.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.Append(messages...)
	return nil
}

// SessionIDs returns the keys of all sessions referenced so far, sorted
func (m *MemorySessionStore) SessionIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0)
	m.sessions.Range(func(key, _ interface{}) bool {
		ids = append(ids, key.(string))
		return true
	})
	sort.Strings(ids)
	return ids, nil
}
