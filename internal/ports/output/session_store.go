package output

import (
	"context"

	"llm-chat-bot/internal/domain"
)

// SessionStore interface - Output port
// Defines what the application needs for chat history. Sessions are created lazily
// on first reference and their history is append-only. Implementations must be safe
// for concurrent access to different sessions; writes to the same session are
// serialized by the caller.
type SessionStore interface {
	// GetHistory returns the ordered history of a session, creating the session if needed.
	GetHistory(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)

	// AppendMessages appends messages to the end of a session's history, creating the session if needed.
	AppendMessages(ctx context.Context, sessionID string, messages ...domain.ChatMessage) error

	// SessionIDs returns the keys of all known sessions
	SessionIDs(ctx context.Context) ([]string, error)
}
