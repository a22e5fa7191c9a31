package application

import (
	"fmt"

	"llm-chat-bot/internal/domain"
	"llm-chat-bot/internal/ports/input"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure ConfigCallback implements input.ConfigCallback interface
var _ input.ConfigCallback = (*ConfigCallback)(nil)

// ConfigCallback struct - Application service applying submitted config forms
type ConfigCallback struct {
	settings *ModelSettingsStore
}

// NewConfigCallback func - Creates new config callback
func NewConfigCallback(settings *ModelSettingsStore) *ConfigCallback {
	return &ConfigCallback{settings: settings}
}

// Keyword returns the callback keyword carried by config form submissions
func (c *ConfigCallback) Keyword() string {
	return domain.ConfigCallbackKeyword
}

// Execute func - Use case: overwrite the model settings with the non-empty submitted fields.
// Values are stored as submitted; the model is checked on the next chat.
func (c *ConfigCallback) Execute(inputs map[string]string) *domain.Reply {
	settings := c.settings.Update(func(s domain.ModelSettings) domain.ModelSettings {
		if model := inputs[domain.FormFieldModel]; model != "" {
			s.Model = model
		}
		if temperature := inputs[domain.FormFieldTemperature]; temperature != "" {
			s.Temperature = temperature
		}
		return s
	})

	logrus.Infof("Model settings updated: model=%s, temperature=%s", settings.Model, settings.Temperature)

	return domain.InfoReply(fmt.Sprintf("LLM model is set to '%s', Temperature is set to '%s'", settings.Model, settings.Temperature))
}
