package output

import (
	"context"
	"time"

	"llm-chat-bot/internal/domain"
)

// ModelGateway interface - Output port
// Defines what the application needs from the model-serving gateway's REST surface.
// Implementations never return errors: transport and parsing failures are logged
// and reported as "data absent" (false, empty list, empty info).
type ModelGateway interface {
	// BaseURL returns the gateway base URL, used in user-facing diagnostics
	BaseURL() string

	// IsReachable reports whether the gateway answers its base URL with HTTP 200 within timeout
	IsReachable(ctx context.Context, timeout time.Duration) bool

	// ListModels returns the ids of all models currently served by the gateway, in response order
	ListModels(ctx context.Context) []string

	// IsAvailable reports whether name is in the live model list. The list is refetched on every call.
	IsAvailable(ctx context.Context, name string) bool

	// GetModelInfo returns the metadata of the named model, or an empty mapping
	GetModelInfo(ctx context.Context, name string) domain.ModelInfo
}

// ChatModel interface - Output port
// Defines the model invocation used by the prompt chain
type ChatModel interface {
	// ChatCompletion sends a non-streaming chat completion request and returns the generated content
	ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error)
}
