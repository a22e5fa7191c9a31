package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"llm-chat-bot/internal/domain"
)

// Mock implementations for testing

// MockLineClient implements output.LineClient for testing
type MockLineClient struct {
	ReplyMessageFunc func(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error)
	PushMessageFunc  func(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error)
	GetProfileFunc   func(userID string) (*domain.LineProfile, error)

	// Captured values for assertions
	LastReplyRequest *domain.LineReplyMessageRequest
	LastPushRequest  *domain.LinePushMessageRequest

	// Track all push requests for multi-message testing
	PushRequests []domain.LinePushMessageRequest
}

func (m *MockLineClient) ReplyMessage(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error) {
	m.LastReplyRequest = &request
	if m.ReplyMessageFunc != nil {
		return m.ReplyMessageFunc(request)
	}
	return &domain.LineMessageResponse{Status: "ok"}, nil
}

func (m *MockLineClient) PushMessage(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error) {
	m.LastPushRequest = &request
	m.PushRequests = append(m.PushRequests, request)
	if m.PushMessageFunc != nil {
		return m.PushMessageFunc(request)
	}
	return &domain.LineMessageResponse{Status: "ok"}, nil
}

func (m *MockLineClient) GetProfile(userID string) (*domain.LineProfile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(userID)
	}
	return nil, errors.New("profile not found")
}

// MockModelGateway implements output.ModelGateway for testing
type MockModelGateway struct {
	URL       string
	Reachable bool
	Models    []string
	Info      map[string]domain.ModelInfo

	// Captured values for assertions
	ReachableCalls int
	ListCalls      int
}

func (m *MockModelGateway) BaseURL() string {
	return m.URL
}

func (m *MockModelGateway) IsReachable(ctx context.Context, timeout time.Duration) bool {
	m.ReachableCalls++
	return m.Reachable
}

func (m *MockModelGateway) ListModels(ctx context.Context) []string {
	m.ListCalls++
	if !m.Reachable || m.Models == nil {
		return []string{}
	}
	return m.Models
}

func (m *MockModelGateway) IsAvailable(ctx context.Context, name string) bool {
	for _, model := range m.ListModels(ctx) {
		if model == name {
			return true
		}
	}
	return false
}

func (m *MockModelGateway) GetModelInfo(ctx context.Context, name string) domain.ModelInfo {
	if info, ok := m.Info[name]; ok {
		return info
	}
	return domain.ModelInfo{}
}

// MockChatModel implements output.ChatModel for testing
type MockChatModel struct {
	ChatCompletionFunc func(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error)

	// Captured values for assertions
	mu           sync.Mutex
	ChatRequests []domain.ChatCompletionRequest
}

func (m *MockChatModel) ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	m.mu.Lock()
	m.ChatRequests = append(m.ChatRequests, request)
	m.mu.Unlock()
	if m.ChatCompletionFunc != nil {
		return m.ChatCompletionFunc(ctx, request)
	}
	return &domain.ChatCompletionResponse{Content: "AI response"}, nil
}

// MockSessionStore implements output.SessionStore for testing with an in-memory map
type MockSessionStore struct {
	GetHistoryErr error
	AppendErr     error

	mu       sync.Mutex
	Sessions map[string][]domain.ChatMessage
}

func (m *MockSessionStore) GetHistory(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	if m.GetHistoryErr != nil {
		return nil, m.GetHistoryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Sessions == nil {
		m.Sessions = make(map[string][]domain.ChatMessage)
	}
	return append([]domain.ChatMessage{}, m.Sessions[sessionID]...), nil
}

func (m *MockSessionStore) AppendMessages(ctx context.Context, sessionID string, messages ...domain.ChatMessage) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Sessions == nil {
		m.Sessions = make(map[string][]domain.ChatMessage)
	}
	m.Sessions[sessionID] = append(m.Sessions[sessionID], messages...)
	return nil
}

func (m *MockSessionStore) SessionIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.Sessions))
	for id := range m.Sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// MockChain implements Chain for testing
type MockChain struct {
	InvokeFunc func(ctx context.Context, sessionID, question string, settings domain.ModelSettings) (string, error)

	// Captured values for assertions
	Calls        int
	LastSession  string
	LastQuestion string
	LastSettings domain.ModelSettings
}

func (m *MockChain) Invoke(ctx context.Context, sessionID, question string, settings domain.ModelSettings) (string, error) {
	m.Calls++
	m.LastSession = sessionID
	m.LastQuestion = question
	m.LastSettings = settings
	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, sessionID, question, settings)
	}
	return "AI response", nil
}

// MockChatCommand implements input.ChatCommand for testing
type MockChatCommand struct {
	ExecuteFunc func(ctx context.Context, prompt, sessionID string) (*domain.Reply, error)

	// Captured values for assertions
	Calls         int
	LastPrompt    string
	LastSessionID string
}

func (m *MockChatCommand) Execute(ctx context.Context, prompt, sessionID string) (*domain.Reply, error) {
	m.Calls++
	m.LastPrompt = prompt
	m.LastSessionID = sessionID
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, prompt, sessionID)
	}
	return domain.InfoReply("AI response"), nil
}

// MockConfigCallback implements input.ConfigCallback for testing
type MockConfigCallback struct {
	Calls      int
	LastInputs map[string]string
}

func (m *MockConfigCallback) Execute(inputs map[string]string) *domain.Reply {
	m.Calls++
	m.LastInputs = inputs
	return domain.InfoReply("LLM model is set to 'x', Temperature is set to 'y'")
}

// Test helper to create a basic text message event
func createTextMessageEvent(text string) domain.LineWebhookEvent {
	return domain.LineWebhookEvent{
		Type:       domain.LineEventTypeMessage,
		ReplyToken: "test-reply-token",
		Source: domain.LineSource{
			Type:   domain.LineSourceTypeUser,
			UserID: "test-user-id",
		},
		Message: &domain.LineMessage{
			ID:   "test-message-id",
			Type: domain.LineMessageTypeText,
			Text: text,
		},
	}
}

// Test helper to create a postback event
func createPostbackEvent(data string) domain.LineWebhookEvent {
	return domain.LineWebhookEvent{
		Type:       domain.LineEventTypePostback,
		ReplyToken: "test-reply-token",
		Source: domain.LineSource{
			Type:   domain.LineSourceTypeUser,
			UserID: "test-user-id",
		},
		Postback: &domain.LinePostback{Data: data},
	}
}
