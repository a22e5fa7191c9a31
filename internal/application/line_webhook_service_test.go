package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"llm-chat-bot/internal/domain"
)

func newTestLineService(lineClient *MockLineClient, chatCommand *MockChatCommand, callback *MockConfigCallback, approvedUsers ...string) *LineWebhookService {
	return NewLineWebhookService(lineClient, chatCommand, callback, approvedUsers)
}

// TestHandleWebhook_PlainTextIsChatPrompt tests that plain text goes to the chat command
func TestHandleWebhook_PlainTextIsChatPrompt(t *testing.T) {
	// Arrange
	mockLineClient := &MockLineClient{}
	mockChatCommand := &MockChatCommand{}
	service := newTestLineService(mockLineClient, mockChatCommand, &MockConfigCallback{})

	request := domain.LineWebhookRequest{
		Events: []domain.LineWebhookEvent{createTextMessageEvent("  Hello, AI!  ")},
	}

	// Act
	err := service.HandleWebhook(context.Background(), request)

	// Assert
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if mockChatCommand.LastPrompt != "Hello, AI!" {
		t.Errorf("Expected prompt 'Hello, AI!', got %q", mockChatCommand.LastPrompt)
	}
	if mockChatCommand.LastSessionID != "test-user-id" {
		t.Errorf("Expected session test-user-id, got %s", mockChatCommand.LastSessionID)
	}
	if mockLineClient.LastReplyRequest == nil {
		t.Fatal("Expected reply message to be sent")
	}
	if mockLineClient.LastReplyRequest.ReplyToken != "test-reply-token" {
		t.Errorf("Expected reply token test-reply-token, got %s", mockLineClient.LastReplyRequest.ReplyToken)
	}
	if mockLineClient.LastReplyRequest.Messages[0].Text != "AI response" {
		t.Errorf("Expected 'AI response', got %q", mockLineClient.LastReplyRequest.Messages[0].Text)
	}
}

// TestHandleWebhook_ChatCommandWithPrompt tests /chat <prompt>
func TestHandleWebhook_ChatCommandWithPrompt(t *testing.T) {
	mockChatCommand := &MockChatCommand{}
	service := newTestLineService(&MockLineClient{}, mockChatCommand, &MockConfigCallback{})

	request := domain.LineWebhookRequest{
		Events: []domain.LineWebhookEvent{createTextMessageEvent("/CHAT\nWhat is Go?")},
	}
	_ = service.HandleWebhook(context.Background(), request)

	if mockChatCommand.LastPrompt != "What is Go?" {
		t.Errorf("Expected prompt 'What is Go?', got %q", mockChatCommand.LastPrompt)
	}
}

// TestHandleWebhook_ChatWithoutPromptRendersForm tests that a bare /chat yields a flex form
func TestHandleWebhook_ChatWithoutPromptRendersForm(t *testing.T) {
	// Arrange
	mockLineClient := &MockLineClient{}
	form := domain.NewConfigForm([]string{"gpt-4o"}, domain.ModelSettings{Model: "gpt-4o", Temperature: "0.5"})
	mockChatCommand := &MockChatCommand{
		ExecuteFunc: func(ctx context.Context, prompt, sessionID string) (*domain.Reply, error) {
			return domain.FormReply(form), nil
		},
	}
	service := newTestLineService(mockLineClient, mockChatCommand, &MockConfigCallback{})

	// Act
	err := service.HandleWebhook(context.Background(), domain.LineWebhookRequest{
		Events: []domain.LineWebhookEvent{createTextMessageEvent("/chat")},
	})

	// Assert
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if mockChatCommand.LastPrompt != "" {
		t.Errorf("Expected empty prompt, got %q", mockChatCommand.LastPrompt)
	}
	msg := mockLineClient.LastReplyRequest.Messages[0]
	if msg.Type != domain.LineMessageTypeFlex || msg.Form != form {
		t.Errorf("Expected flex message carrying the form, got %+v", msg)
	}
	if msg.Text != "LLM Chat Config" {
		t.Errorf("Expected alt text 'LLM Chat Config', got %q", msg.Text)
	}
}

// TestHandleWebhook_WarningIsPrefixed tests the warning rendering
func TestHandleWebhook_WarningIsPrefixed(t *testing.T) {
	mockLineClient := &MockLineClient{}
	mockChatCommand := &MockChatCommand{
		ExecuteFunc: func(ctx context.Context, prompt, sessionID string) (*domain.Reply, error) {
			return domain.WarningReply("LiteLLM is not reachable at http://apollo.home:4000"), nil
		},
	}
	service := newTestLineService(mockLineClient, mockChatCommand, &MockConfigCallback{})

	_ = service.HandleWebhook(context.Background(), domain.LineWebhookRequest{
		Events: []domain.LineWebhookEvent{createTextMessageEvent("hello")},
	})

	expected := "⚠️ LiteLLM is not reachable at http://apollo.home:4000"
	if got := mockLineClient.LastReplyRequest.Messages[0].Text; got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

// TestHandleWebhook_GroupMessagesShareSession tests session scoping by conversation
func TestHandleWebhook_GroupMessagesShareSession(t *testing.T) {
	mockChatCommand := &MockChatCommand{}
	service := newTestLineService(&MockLineClient{}, mockChatCommand, &MockConfigCallback{})

	event := createTextMessageEvent("hello")
	event.Source = domain.LineSource{Type: domain.LineSourceTypeGroup, UserID: "U1", GroupID: "G1"}

	_ = service.HandleWebhook(context.Background(), domain.LineWebhookRequest{Events: []domain.LineWebhookEvent{event}})

	if mockChatCommand.LastSessionID != "G1" {
		t.Errorf("Expected group session G1, got %s", mockChatCommand.LastSessionID)
	}
}

// TestHandleWebhook_UnapprovedUserIsIgnored tests the approved users filter
func TestHandleWebhook_UnapprovedUserIsIgnored(t *testing.T) {
	mockLineClient := &MockLineClient{}
	mockChatCommand := &MockChatCommand{}
	service := newTestLineService(mockLineClient, mockChatCommand, &MockConfigCallback{}, "U-approved")

	err := service.HandleWebhook(context.Background(), domain.LineWebhookRequest{
		Events: []domain.LineWebhookEvent{createTextMessageEvent("hello")},
	})

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if mockChatCommand.Calls != 0 {
		t.Errorf("Expected chat command not to be called, got %d calls", mockChatCommand.Calls)
	}
	if mockLineClient.LastReplyRequest != nil {
		t.Error("Expected no reply to unapproved user")
	}

	event := createTextMessageEvent("hello")
	event.Source.UserID = "U-approved"
	_ = service.HandleWebhook(context.Background(), domain.LineWebhookRequest{Events: []domain.LineWebhookEvent{event}})
	if mockChatCommand.Calls != 1 {
		t.Errorf("Expected approved user to reach the chat command, got %d calls", mockChatCommand.Calls)
	}
}

// TestHandleWebhook_HelpAndEcho tests the built-in commands
func TestHandleWebhook_HelpAndEcho(t *testing.T) {
	tests := []struct {
		text     string
		contains string
	}{
		{"/help", "/chat <prompt>"},
		{"/echo hi there", "hi there"},
		{"/echo", "Usage: /echo <text>"},
		{"/unknown", "Unknown command: /unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			mockLineClient := &MockLineClient{}
			mockChatCommand := &MockChatCommand{}
			service := newTestLineService(mockLineClient, mockChatCommand, &MockConfigCallback{})

			_ = service.HandleWebhook(context.Background(), domain.LineWebhookRequest{
				Events: []domain.LineWebhookEvent{createTextMessageEvent(tt.text)},
			})

			if mockLineClient.LastReplyRequest == nil {
				t.Fatal("Expected reply message to be sent")
			}
			if got := mockLineClient.LastReplyRequest.Messages[0].Text; !strings.Contains(got, tt.contains) {
				t.Errorf("Expected reply to contain %q, got %q", tt.contains, got)
			}
			if mockChatCommand.Calls != 0 {
				t.Errorf("Expected chat command not to be called, got %d calls", mockChatCommand.Calls)
			}
		})
	}
}

// TestHandleWebhook_PostbackRoutesToConfigCallback tests config form submissions
func TestHandleWebhook_PostbackRoutesToConfigCallback(t *testing.T) {
	// Arrange
	mockLineClient := &MockLineClient{}
	mockCallback := &MockConfigCallback{}
	service := newTestLineService(mockLineClient, &MockChatCommand{}, mockCallback)

	// Act
	err := service.HandleWebhook(context.Background(), domain.LineWebhookRequest{
		Events: []domain.LineWebhookEvent{createPostbackEvent("callback=llm_callback&llm_model=ollama%2Fllama3")},
	})

	// Assert
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if mockCallback.Calls != 1 {
		t.Fatalf("Expected config callback to be called once, got %d", mockCallback.Calls)
	}
	if mockCallback.LastInputs["llm_model"] != "ollama/llama3" {
		t.Errorf("Expected llm_model ollama/llama3, got %q", mockCallback.LastInputs["llm_model"])
	}
	if _, ok := mockCallback.LastInputs["callback"]; ok {
		t.Error("Expected callback key not to be passed as a form field")
	}
	if mockLineClient.LastReplyRequest == nil {
		t.Fatal("Expected confirmation reply")
	}
}

// TestHandleWebhook_UnknownPostbackIsIgnored tests postbacks of other callbacks
func TestHandleWebhook_UnknownPostbackIsIgnored(t *testing.T) {
	mockLineClient := &MockLineClient{}
	mockCallback := &MockConfigCallback{}
	service := newTestLineService(mockLineClient, &MockChatCommand{}, mockCallback)

	for _, data := range []string{"callback=other&llm_model=x", "llm_model=x", "%zz"} {
		_ = service.HandleWebhook(context.Background(), domain.LineWebhookRequest{
			Events: []domain.LineWebhookEvent{createPostbackEvent(data)},
		})
	}

	if mockCallback.Calls != 0 {
		t.Errorf("Expected config callback not to be called, got %d calls", mockCallback.Calls)
	}
	if mockLineClient.LastReplyRequest != nil {
		t.Error("Expected no reply for ignored postbacks")
	}
}

// TestHandleWebhook_FollowSendsWelcome tests the follow event
func TestHandleWebhook_FollowSendsWelcome(t *testing.T) {
	mockLineClient := &MockLineClient{}
	service := newTestLineService(mockLineClient, &MockChatCommand{}, &MockConfigCallback{})

	event := domain.LineWebhookEvent{
		Type:   domain.LineEventTypeFollow,
		Source: domain.LineSource{Type: domain.LineSourceTypeUser, UserID: "U-new"},
	}
	err := service.HandleWebhook(context.Background(), domain.LineWebhookRequest{Events: []domain.LineWebhookEvent{event}})

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if mockLineClient.LastPushRequest == nil || mockLineClient.LastPushRequest.To != "U-new" {
		t.Fatalf("Expected welcome push to U-new, got %+v", mockLineClient.LastPushRequest)
	}
	if !strings.Contains(mockLineClient.LastPushRequest.Messages[0].Text, "Welcome") {
		t.Errorf("Expected welcome text, got %q", mockLineClient.LastPushRequest.Messages[0].Text)
	}
}

// TestHandleWebhook_FollowGreetsByDisplayName tests the profile lookup on follow
func TestHandleWebhook_FollowGreetsByDisplayName(t *testing.T) {
	mockLineClient := &MockLineClient{
		GetProfileFunc: func(userID string) (*domain.LineProfile, error) {
			return &domain.LineProfile{UserID: userID, DisplayName: "Somchai"}, nil
		},
	}
	service := newTestLineService(mockLineClient, &MockChatCommand{}, &MockConfigCallback{})

	event := domain.LineWebhookEvent{
		Type:   domain.LineEventTypeFollow,
		Source: domain.LineSource{Type: domain.LineSourceTypeUser, UserID: "U-new"},
	}
	if err := service.HandleWebhook(context.Background(), domain.LineWebhookRequest{Events: []domain.LineWebhookEvent{event}}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got := mockLineClient.LastPushRequest.Messages[0].Text; !strings.HasPrefix(got, "Welcome, Somchai!") {
		t.Errorf("Expected greeting with display name, got %q", got)
	}
}

// TestHandleWebhook_JoinRepliesToGroup tests the greeting when the bot joins a group
func TestHandleWebhook_JoinRepliesToGroup(t *testing.T) {
	mockLineClient := &MockLineClient{}
	service := newTestLineService(mockLineClient, &MockChatCommand{}, &MockConfigCallback{}, "U-approved")

	event := domain.LineWebhookEvent{
		Type:       domain.LineEventTypeJoin,
		ReplyToken: "join-token",
		Source:     domain.LineSource{Type: domain.LineSourceTypeGroup, GroupID: "G1"},
	}
	if err := service.HandleWebhook(context.Background(), domain.LineWebhookRequest{Events: []domain.LineWebhookEvent{event}}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if mockLineClient.LastReplyRequest == nil || mockLineClient.LastReplyRequest.ReplyToken != "join-token" {
		t.Fatalf("Expected join greeting reply, got %+v", mockLineClient.LastReplyRequest)
	}
	if got := mockLineClient.LastReplyRequest.Messages[0].Text; got != joinMessage {
		t.Errorf("Expected join message, got %q", got)
	}
}

// TestHandleWebhook_ReplyFailureIsReturned tests LINE API failures
func TestHandleWebhook_ReplyFailureIsReturned(t *testing.T) {
	mockLineClient := &MockLineClient{
		ReplyMessageFunc: func(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error) {
			return nil, errors.New("invalid reply token")
		},
	}
	service := newTestLineService(mockLineClient, &MockChatCommand{}, &MockConfigCallback{})

	err := service.HandleWebhook(context.Background(), domain.LineWebhookRequest{
		Events: []domain.LineWebhookEvent{createTextMessageEvent("hello")},
	})

	if err == nil {
		t.Error("Expected reply failure to be returned")
	}
}

// Error handling

// TestErrorHandling_ChatFailureReturnsFriendlyMessage tests that invocation failures become a friendly reply
func TestErrorHandling_ChatFailureReturnsFriendlyMessage(t *testing.T) {
	for _, chatErr := range []error{
		domain.ErrGatewayTimeout,
		domain.ErrGatewayUnreachable,
		errors.New("ECONNREFUSED: connection to localhost:4000 failed with TCP timeout after 30s"),
	} {
		// Arrange
		mockLineClient := &MockLineClient{}
		mockChatCommand := &MockChatCommand{
			ExecuteFunc: func(ctx context.Context, prompt, sessionID string) (*domain.Reply, error) {
				return nil, chatErr
			},
		}
		service := newTestLineService(mockLineClient, mockChatCommand, &MockConfigCallback{})

		// Act
		err := service.HandleWebhook(context.Background(), domain.LineWebhookRequest{
			Events: []domain.LineWebhookEvent{createTextMessageEvent("Hello, AI!")},
		})

		// Assert
		if err != nil {
			t.Errorf("Expected no error returned to caller, got: %v", err)
		}
		if mockLineClient.LastReplyRequest == nil {
			t.Fatal("Expected reply message to be sent")
		}

		expectedMessage := "Sorry, I'm having trouble processing your request right now. Please try again later."
		actualMessage := mockLineClient.LastReplyRequest.Messages[0].Text
		if actualMessage != expectedMessage {
			t.Errorf("Expected user-friendly message:\n%q\nGot:\n%q", expectedMessage, actualMessage)
		}
	}
}

// User input truncation

// TestTruncateUserInput tests the prompt length cap
func TestTruncateUserInput(t *testing.T) {
	service := newTestLineService(&MockLineClient{}, &MockChatCommand{}, &MockConfigCallback{})

	short := "This is a short message"
	if got := service.truncateUserInput(short); got != short {
		t.Errorf("Short message should not be modified, got %q", got)
	}

	exact := strings.Repeat("a", maxUserInputLength)
	if got := service.truncateUserInput(exact); got != exact {
		t.Errorf("Message at exactly max length should not be modified, got length %d", len(got))
	}

	long := strings.Repeat("b", 5000)
	if got := service.truncateUserInput(long); got != strings.Repeat("b", maxUserInputLength) {
		t.Errorf("Long message should be truncated to %d chars, got length %d", maxUserInputLength, len(got))
	}

	// Counted in characters, not bytes
	thai := strings.Repeat("ก", maxUserInputLength+10)
	if got := []rune(service.truncateUserInput(thai)); len(got) != maxUserInputLength {
		t.Errorf("Expected %d characters, got %d", maxUserInputLength, len(got))
	}
}

// TestTruncateUserInput_IntegrationWithHandler tests truncation is applied before the chat command
func TestTruncateUserInput_IntegrationWithHandler(t *testing.T) {
	mockChatCommand := &MockChatCommand{}
	service := newTestLineService(&MockLineClient{}, mockChatCommand, &MockConfigCallback{})

	_ = service.HandleWebhook(context.Background(), domain.LineWebhookRequest{
		Events: []domain.LineWebhookEvent{createTextMessageEvent(strings.Repeat("x", 6000))},
	})

	if len(mockChatCommand.LastPrompt) != maxUserInputLength {
		t.Errorf("Expected prompt of %d chars, got %d", maxUserInputLength, len(mockChatCommand.LastPrompt))
	}
}

// AI response splitting

// TestSplitAIResponse_ShortAndExact tests responses that fit in one message
func TestSplitAIResponse_ShortAndExact(t *testing.T) {
	service := newTestLineService(&MockLineClient{}, &MockChatCommand{}, &MockConfigCallback{})

	for _, text := range []string{"This is a short AI response.", strings.Repeat("a", maxLineMessageLength)} {
		result := service.splitAIResponse(text)
		if len(result) != 1 || result[0] != text {
			t.Errorf("Expected single unmodified message, got %d messages", len(result))
		}
	}
}

// TestSplitAIResponse_LongMessage tests that long responses split without losing content
func TestSplitAIResponse_LongMessage(t *testing.T) {
	service := newTestLineService(&MockLineClient{}, &MockChatCommand{}, &MockConfigCallback{})
	longMessage := strings.Repeat("b", 7500)

	result := service.splitAIResponse(longMessage)

	if len(result) != 2 {
		t.Errorf("Expected 2 messages for 7500 char response, got %d", len(result))
	}
	for i, msg := range result {
		if len(msg) > maxLineMessageLength {
			t.Errorf("Message %d exceeds max length: %d > %d", i, len(msg), maxLineMessageLength)
		}
	}
	if strings.Join(result, "") != longMessage {
		t.Error("Total content should be preserved")
	}
}

// TestSplitAIResponse_SentenceBoundary tests that splits prefer sentence ends
func TestSplitAIResponse_SentenceBoundary(t *testing.T) {
	service := newTestLineService(&MockLineClient{}, &MockChatCommand{}, &MockConfigCallback{})

	sentence1 := strings.Repeat("a", 4899) + ". "
	sentence2 := strings.Repeat("b", 200) + " End of text."
	longMessage := sentence1 + sentence2

	result := service.splitAIResponse(longMessage)

	if len(result) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(result))
	}
	if result[0] != sentence1 {
		t.Errorf("Expected first message to end at the sentence boundary, got ...%q", result[0][len(result[0])-20:])
	}
	if result[1] != sentence2 {
		t.Errorf("Expected second message to hold the rest, got %q", result[1])
	}
}

// TestSplitAIResponse_MaxMessages tests the message count cap
func TestSplitAIResponse_MaxMessages(t *testing.T) {
	service := newTestLineService(&MockLineClient{}, &MockChatCommand{}, &MockConfigCallback{})

	result := service.splitAIResponse(strings.Repeat("c", 30000))

	if len(result) != maxMessagesPerResponse {
		t.Errorf("Expected exactly %d messages for very long response, got %d", maxMessagesPerResponse, len(result))
	}
	for i, msg := range result {
		if len(msg) > maxLineMessageLength {
			t.Errorf("Message %d exceeds max length: %d > %d", i, len(msg), maxLineMessageLength)
		}
	}
}

// TestSplitAIResponse_MultiMessageSending tests that the first chunk is a reply and the rest are pushed
func TestSplitAIResponse_MultiMessageSending(t *testing.T) {
	// Arrange
	mockLineClient := &MockLineClient{}
	mockChatCommand := &MockChatCommand{
		ExecuteFunc: func(ctx context.Context, prompt, sessionID string) (*domain.Reply, error) {
			return domain.InfoReply(strings.Repeat("x", 12000)), nil
		},
	}
	service := newTestLineService(mockLineClient, mockChatCommand, &MockConfigCallback{})

	event := createTextMessageEvent("Generate a long response")
	event.Source = domain.LineSource{Type: domain.LineSourceTypeRoom, UserID: "U1", RoomID: "R1"}

	// Act
	err := service.HandleWebhook(context.Background(), domain.LineWebhookRequest{Events: []domain.LineWebhookEvent{event}})

	// Assert
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if mockLineClient.LastReplyRequest == nil || len(mockLineClient.LastReplyRequest.Messages) != 1 {
		t.Fatal("Expected one message in the reply")
	}
	if len(mockLineClient.PushRequests) != 2 {
		t.Fatalf("Expected 2 push messages, got %d", len(mockLineClient.PushRequests))
	}
	for i, pushReq := range mockLineClient.PushRequests {
		if pushReq.To != "R1" {
			t.Errorf("Push request %d should be sent to the room R1, got %s", i, pushReq.To)
		}
	}
}

// TestHandleWebhook_UserRateLimit tests that prompts beyond the user's burst are not sent to the model
func TestHandleWebhook_UserRateLimit(t *testing.T) {
	// Arrange
	mockLineClient := &MockLineClient{}
	mockChatCommand := &MockChatCommand{}
	service := newTestLineService(mockLineClient, mockChatCommand, &MockConfigCallback{}).WithUserRateLimit(1, 2)

	request := domain.LineWebhookRequest{
		Events: []domain.LineWebhookEvent{
			createTextMessageEvent("first"),
			createTextMessageEvent("/chat second"),
			createTextMessageEvent("third"),
		},
	}

	// Act
	err := service.HandleWebhook(context.Background(), request)

	// Assert
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if mockChatCommand.Calls != 2 {
		t.Errorf("Expected 2 chat calls, got %d", mockChatCommand.Calls)
	}
	if mockLineClient.LastReplyRequest == nil {
		t.Fatal("Expected a reply for the limited prompt")
	}
	if got := mockLineClient.LastReplyRequest.Messages[0].Text; got != warningPrefix+rateLimitedMessage {
		t.Errorf("Expected rate limit warning, got %q", got)
	}
}
