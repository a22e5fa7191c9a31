package application

import (
	"sync"
	"testing"

	"llm-chat-bot/internal/domain"
)

// TestModelSettingsStore_LoadReturnsInitialSettings tests the seeded snapshot
func TestModelSettingsStore_LoadReturnsInitialSettings(t *testing.T) {
	store := NewModelSettingsStore(domain.ModelSettings{Model: "gpt-4o", Temperature: "0.5"})

	got := store.Load()

	if got.Model != "gpt-4o" || got.Temperature != "0.5" {
		t.Errorf("Expected gpt-4o/0.5, got %s/%s", got.Model, got.Temperature)
	}
}

// TestModelSettingsStore_UpdateIsVisibleToLaterLoads tests that updates publish a new snapshot
func TestModelSettingsStore_UpdateIsVisibleToLaterLoads(t *testing.T) {
	store := NewModelSettingsStore(domain.ModelSettings{Model: "gpt-4o", Temperature: "0.5"})
	before := store.Load()

	store.Update(func(s domain.ModelSettings) domain.ModelSettings {
		s.Model = "claude-3"
		return s
	})

	if before.Model != "gpt-4o" {
		t.Errorf("Expected earlier snapshot to be unchanged, got %s", before.Model)
	}
	if got := store.Load(); got.Model != "claude-3" || got.Temperature != "0.5" {
		t.Errorf("Expected claude-3/0.5, got %s/%s", got.Model, got.Temperature)
	}
}

// TestModelSettingsStore_ConcurrentUpdatesAreNotLost tests copy-on-write updates under contention
func TestModelSettingsStore_ConcurrentUpdatesAreNotLost(t *testing.T) {
	store := NewModelSettingsStore(domain.ModelSettings{Model: "", Temperature: "0"})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(func(s domain.ModelSettings) domain.ModelSettings {
				s.Model += "x"
				return s
			})
		}()
	}
	wg.Wait()

	if got := len(store.Load().Model); got != 100 {
		t.Errorf("Expected 100 applied updates, got %d", got)
	}
}
