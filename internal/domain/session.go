package domain

import "time"

// ChatSession represents the conversation history of one session key.
// History is append-only; sessions live as long as the store that owns them.
type ChatSession struct {
	ID        string        // Session key (conversation or user identifier)
	Messages  []ChatMessage // Conversation history, oldest first
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewChatSession creates an empty chat session
func NewChatSession(id string) *ChatSession {
	now := time.Now()
	return &ChatSession{
		ID:        id,
		Messages:  make([]ChatMessage, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds messages to the end of the history
func (s *ChatSession) Append(msgs ...ChatMessage) {
	if len(msgs) == 0 {
		return
	}
	s.Messages = append(s.Messages, msgs...)
	s.UpdatedAt = time.Now()
}

// GetHistory returns a copy of the conversation history
func (s *ChatSession) GetHistory() []ChatMessage {
	if len(s.Messages) == 0 {
		return []ChatMessage{}
	}
	// Return a copy to prevent external modification
	history := make([]ChatMessage, len(s.Messages))
	copy(history, s.Messages)
	return history
}
