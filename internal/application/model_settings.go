package application

import (
	"sync/atomic"

	"llm-chat-bot/internal/domain"
)

// ModelSettingsStore holds the runtime model configuration shared by the chat command
// and the config callback. Readers always see a complete snapshot; writers replace it.
type ModelSettingsStore struct {
	current atomic.Pointer[domain.ModelSettings]
}

// NewModelSettingsStore creates a settings store seeded with the initial configuration
func NewModelSettingsStore(initial domain.ModelSettings) *ModelSettingsStore {
	s := &ModelSettingsStore{}
	s.current.Store(&initial)
	return s
}

// Load returns the current settings snapshot
func (s *ModelSettingsStore) Load() domain.ModelSettings {
	return *s.current.Load()
}

// Update applies fn to the current settings and publishes the result.
// fn may run more than once when writers race and must not have side effects.
func (s *ModelSettingsStore) Update(fn func(domain.ModelSettings) domain.ModelSettings) domain.ModelSettings {
	for {
		old := s.current.Load()
		next := fn(*old)
		if s.current.CompareAndSwap(old, &next) {
			return next
		}
	}
}
