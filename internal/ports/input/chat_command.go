package input

import (
	"context"

	"llm-chat-bot/internal/domain"
)

// ChatCommand interface - Input port (use case)
// Answers a user prompt with the configured model, or returns the config form for an empty prompt
type ChatCommand interface {
	// Execute handles one prompt within the given session. An empty sessionID selects the
	// command's default session. Precondition failures are returned as warning replies;
	// the returned error is reserved for failures of the model invocation itself.
	Execute(ctx context.Context, prompt, sessionID string) (*domain.Reply, error)
}

// ConfigCallback interface - Input port (use case)
// Applies a submitted config form to the runtime model settings
type ConfigCallback interface {
	// Execute applies the submitted form fields and returns a confirmation reply
	Execute(inputs map[string]string) *domain.Reply
}
