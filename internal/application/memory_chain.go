package application

import (
	"context"
	"fmt"
	"strings"

	"llm-chat-bot/internal/domain"
	"llm-chat-bot/internal/ports/output"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/valyala/fasttemplate"
)

// promptTemplate wraps the system context and the user question into one user turn
const promptTemplate = "Context:\n{context}\n\nQuestion:\n{question}\n\nAnswer:"

// Chain answers a question within a session, recording the exchange in the session history
type Chain interface {
	Invoke(ctx context.Context, sessionID, question string, settings domain.ModelSettings) (string, error)
}

// Compile-time check to ensure MemoryChain implements Chain interface
var _ Chain = (*MemoryChain)(nil)

// MemoryChain sends the prompt together with the session history to the chat model
// and appends the question and the answer to the history once the model has answered
type MemoryChain struct {
	model         output.ChatModel
	sessions      output.SessionStore
	systemContext string
	locks         *sessionLocks
}

// NewMemoryChain creates a prompt chain backed by the given model and session store
func NewMemoryChain(model output.ChatModel, sessions output.SessionStore, systemContext string) *MemoryChain {
	return &MemoryChain{
		model:         model,
		sessions:      sessions,
		systemContext: strings.TrimSpace(systemContext),
		locks:         newSessionLocks(),
	}
}

// Invoke renders the prompt, calls the model and records the turn.
// The session is locked for the whole read-invoke-append cycle.
func (c *MemoryChain) Invoke(ctx context.Context, sessionID, question string, settings domain.ModelSettings) (string, error) {
	temperature, err := parseTemperature(settings.Temperature)
	if err != nil {
		return "", err
	}

	unlock := c.locks.Lock(sessionID)
	defer unlock()

	history, err := c.sessions.GetHistory(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	messages := make([]domain.ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, domain.ChatMessage{
		Role:    domain.ChatMessageRoleUser,
		Content: c.renderPrompt(question),
	})

	resp, err := c.model.ChatCompletion(ctx, domain.ChatCompletionRequest{
		Model:       settings.Model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke model %s: %w", settings.Model, err)
	}

	err = c.sessions.AppendMessages(ctx, sessionID,
		domain.ChatMessage{Role: domain.ChatMessageRoleUser, Content: question},
		domain.ChatMessage{Role: domain.ChatMessageRoleAssistant, Content: resp.Content},
	)
	if err != nil {
		return "", fmt.Errorf("failed to store session %s: %w", sessionID, err)
	}

	logrus.Debugf("Session %s: answered with %d history messages, tokens=%d", sessionID, len(history), resp.TotalTokens)

	return resp.Content, nil
}

func (c *MemoryChain) renderPrompt(question string) string {
	return fasttemplate.ExecuteString(promptTemplate, "{", "}", map[string]interface{}{
		"context":  c.systemContext,
		"question": question,
	})
}

// parseTemperature interprets the stored temperature. An empty value leaves the
// choice to the model server.
func parseTemperature(value string) (*float64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := cast.ToFloat64E(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%w: temperature %q is not a number", domain.ErrInvalidRequest, value)
	}
	return &t, nil
}
