package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"llm-chat-bot/internal/domain"
)

// TestGetHistoryCreatesSessionLazily tests that the first reference creates an empty session
func TestGetHistoryCreatesSessionLazily(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	history, err := store.GetHistory(ctx, "default")
	if err != nil {
		t.Errorf("expected no error on GetHistory, got %v", err)
	}

	if history == nil || len(history) != 0 {
		t.Errorf("expected empty non-nil history, got %v", history)
	}

	ids, _ := store.SessionIDs(ctx)
	if len(ids) != 1 || ids[0] != "default" {
		t.Errorf("expected session 'default' to exist, got %v", ids)
	}
}

// TestAppendMessagesKeepsOrder tests that appended turns are returned oldest first
func TestAppendMessagesKeepsOrder(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	err := store.AppendMessages(ctx, "U1234567890abcdef",
		domain.ChatMessage{Role: domain.ChatMessageRoleUser, Content: "Hello"},
		domain.ChatMessage{Role: domain.ChatMessageRoleAssistant, Content: "Hi there!"},
	)
	if err != nil {
		t.Fatalf("expected no error on AppendMessages, got %v", err)
	}

	err = store.AppendMessages(ctx, "U1234567890abcdef",
		domain.ChatMessage{Role: domain.ChatMessageRoleUser, Content: "How are you?"},
		domain.ChatMessage{Role: domain.ChatMessageRoleAssistant, Content: "Fine."},
	)
	if err != nil {
		t.Fatalf("expected no error on AppendMessages, got %v", err)
	}

	history, _ := store.GetHistory(ctx, "U1234567890abcdef")

	expected := []string{"Hello", "Hi there!", "How are you?", "Fine."}
	if len(history) != len(expected) {
		t.Fatalf("expected %d messages, got %d", len(expected), len(history))
	}
	for i, content := range expected {
		if history[i].Content != content {
			t.Errorf("message %d: expected %q, got %q", i, content, history[i].Content)
		}
	}
}

// TestSessionsAreIsolated tests that different session keys do not share history
func TestSessionsAreIsolated(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_ = store.AppendMessages(ctx, "user1", domain.ChatMessage{Role: domain.ChatMessageRoleUser, Content: "from user1"})
	_ = store.AppendMessages(ctx, "user2", domain.ChatMessage{Role: domain.ChatMessageRoleUser, Content: "from user2"})

	history1, _ := store.GetHistory(ctx, "user1")
	history2, _ := store.GetHistory(ctx, "user2")

	if len(history1) != 1 || history1[0].Content != "from user1" {
		t.Errorf("expected user1 history to contain only its message, got %v", history1)
	}
	if len(history2) != 1 || history2[0].Content != "from user2" {
		t.Errorf("expected user2 history to contain only its message, got %v", history2)
	}

	ids, _ := store.SessionIDs(ctx)
	if len(ids) != 2 || ids[0] != "user1" || ids[1] != "user2" {
		t.Errorf("expected sorted session ids [user1 user2], got %v", ids)
	}
}

// TestGetHistoryReturnsCopy tests that callers cannot mutate stored history
func TestGetHistoryReturnsCopy(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_ = store.AppendMessages(ctx, "default", domain.ChatMessage{Role: domain.ChatMessageRoleUser, Content: "original"})

	history, _ := store.GetHistory(ctx, "default")
	history[0].Content = "modified"

	stored, _ := store.GetHistory(ctx, "default")
	if stored[0].Content != "original" {
		t.Errorf("expected stored history to be unchanged, got %s", stored[0].Content)
	}
}

// TestConcurrentAccess tests that concurrent operations on different sessions are safe
func TestConcurrentAccess(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	numGoroutines := 50

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("user%d", id%5)
			_ = store.AppendMessages(ctx, sessionID,
				domain.ChatMessage{Role: domain.ChatMessageRoleUser, Content: "q"},
				domain.ChatMessage{Role: domain.ChatMessageRoleAssistant, Content: "a"},
			)
			_, _ = store.GetHistory(ctx, sessionID)
		}(i)
	}

	wg.Wait()

	total := 0
	ids, _ := store.SessionIDs(ctx)
	for _, id := range ids {
		history, _ := store.GetHistory(ctx, id)
		total += len(history)
	}

	if total != numGoroutines*2 {
		t.Errorf("expected %d messages across sessions, got %d", numGoroutines*2, total)
	}
}
