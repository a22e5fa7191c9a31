package input

import (
	"context"

	"llm-chat-bot/internal/domain"
)

// ModelCatalog interface - Input port (use case)
// Exposes what the model gateway currently serves
type ModelCatalog interface {
	// Status reports the gateway address and whether it answers
	Status(ctx context.Context) domain.GatewayStatus

	// ListModels returns the served model ids; empty when the gateway is down
	ListModels(ctx context.Context) []string

	// GetModelInfo returns the metadata of a model; empty when unknown
	GetModelInfo(ctx context.Context, name string) domain.ModelInfo

	// Settings returns the current runtime model settings
	Settings() domain.ModelSettings
}
