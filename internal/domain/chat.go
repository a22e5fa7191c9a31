package domain

// ChatMessageRole represents the author of a chat message
type ChatMessageRole string

const (
	// ChatMessageRoleSystem - System instructions
	ChatMessageRoleSystem ChatMessageRole = "system"
	// ChatMessageRoleUser - Message written by the user
	ChatMessageRoleUser ChatMessageRole = "user"
	// ChatMessageRoleAssistant - Message generated by the model
	ChatMessageRoleAssistant ChatMessageRole = "assistant"
)

// ChatMessage represents a single turn in a conversation
type ChatMessage struct {
	Role    ChatMessageRole
	Content string
}

// ChatCompletionRequest is the domain request for a model invocation
type ChatCompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature *float64
}

// ChatCompletionResponse is the domain response of a model invocation
type ChatCompletionResponse struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
