package application

import (
	"context"
	"fmt"
	"strings"

	"llm-chat-bot/internal/domain"
	"llm-chat-bot/internal/ports/input"
	"llm-chat-bot/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// DefaultSessionID is used when no session key is configured or supplied
const DefaultSessionID = "default"

// Compile-time check to ensure ChatCommand implements input.ChatCommand interface
var _ input.ChatCommand = (*ChatCommand)(nil)

// ChatCommand struct - Application service answering prompts with the configured model
type ChatCommand struct {
	gateway          output.ModelGateway
	chain            Chain
	settings         *ModelSettingsStore
	defaultSessionID string
}

// NewChatCommand func - Creates new chat command
func NewChatCommand(gateway output.ModelGateway, chain Chain, settings *ModelSettingsStore, defaultSessionID string) *ChatCommand {
	if defaultSessionID == "" {
		defaultSessionID = DefaultSessionID
	}
	return &ChatCommand{
		gateway:          gateway,
		chain:            chain,
		settings:         settings,
		defaultSessionID: defaultSessionID,
	}
}

// Execute func - Use case: answer a prompt, or show the config form for an empty prompt
func (c *ChatCommand) Execute(ctx context.Context, prompt, sessionID string) (*domain.Reply, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return c.configForm(ctx), nil
	}

	logrus.Infof("Got message prompt from user: '%s'", prompt)

	if !c.gateway.IsReachable(ctx, 0) {
		return domain.WarningReply(fmt.Sprintf("LiteLLM is not reachable at %s", c.gateway.BaseURL())), nil
	}

	settings := c.settings.Load()
	if !c.gateway.IsAvailable(ctx, settings.Model) {
		return domain.WarningReply(fmt.Sprintf("LLM model %s is not available", settings.Model)), nil
	}

	if sessionID == "" {
		sessionID = c.defaultSessionID
	}

	answer, err := c.chain.Invoke(ctx, sessionID, prompt, settings)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(answer) == "" {
		return domain.WarningReply("Was expecting an answer from the model."), nil
	}

	return domain.InfoReply(answer), nil
}

// configForm builds the model configuration form from the live model list
func (c *ChatCommand) configForm(ctx context.Context) *domain.Reply {
	if !c.gateway.IsReachable(ctx, 0) {
		return domain.WarningReply(fmt.Sprintf("LiteLLM is not reachable at %s", c.gateway.BaseURL()))
	}

	models := c.gateway.ListModels(ctx)
	return domain.FormReply(domain.NewConfigForm(models, c.settings.Load()))
}
