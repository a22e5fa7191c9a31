package application

import (
	"context"

	"llm-chat-bot/internal/domain"
	"llm-chat-bot/internal/ports/input"
	"llm-chat-bot/internal/ports/output"
)

// Compile-time check to ensure ModelCatalog implements input.ModelCatalog interface
var _ input.ModelCatalog = (*ModelCatalog)(nil)

// ModelCatalog struct - Application service exposing the gateway's models
type ModelCatalog struct {
	gateway  output.ModelGateway
	settings *ModelSettingsStore
}

// NewModelCatalog func - Creates new model catalog
func NewModelCatalog(gateway output.ModelGateway, settings *ModelSettingsStore) *ModelCatalog {
	return &ModelCatalog{gateway: gateway, settings: settings}
}

// Status func - Use case: report gateway reachability
func (m *ModelCatalog) Status(ctx context.Context) domain.GatewayStatus {
	return domain.GatewayStatus{
		BaseURL:   m.gateway.BaseURL(),
		Reachable: m.gateway.IsReachable(ctx, 0),
	}
}

// ListModels func - Use case: list served models
func (m *ModelCatalog) ListModels(ctx context.Context) []string {
	return m.gateway.ListModels(ctx)
}

// GetModelInfo func - Use case: describe one model
func (m *ModelCatalog) GetModelInfo(ctx context.Context, name string) domain.ModelInfo {
	return m.gateway.GetModelInfo(ctx, name)
}

// Settings func - Use case: show the runtime model settings
func (m *ModelCatalog) Settings() domain.ModelSettings {
	return m.settings.Load()
}
