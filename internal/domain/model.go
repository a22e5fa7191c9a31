package domain

import "strings"

// OllamaModelPrefix marks model names served by a self-hosted Ollama backend
const OllamaModelPrefix = "ollama/"

// ModelInfo is the free-form metadata the gateway (or backend) reports for a model,
// e.g. architecture, parameter count or context length.
type ModelInfo map[string]interface{}

// ModelSettings is the runtime model configuration used by the chat command.
// Temperature is kept as submitted and only interpreted at invocation time.
type ModelSettings struct {
	Model       string
	Temperature string
}

// IsOllamaModel reports whether the model name targets a self-hosted Ollama backend
func IsOllamaModel(name string) bool {
	return strings.HasPrefix(name, OllamaModelPrefix)
}

// BareModelName strips the self-hosted backend prefix from a model name
func BareModelName(name string) string {
	return strings.TrimPrefix(name, OllamaModelPrefix)
}

// GatewayStatus describes the model gateway as seen by the bot
type GatewayStatus struct {
	BaseURL   string
	Reachable bool
}
