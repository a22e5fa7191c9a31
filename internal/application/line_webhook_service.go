package application

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"llm-chat-bot/internal/domain"
	"llm-chat-bot/internal/ports/input"
	"llm-chat-bot/internal/ports/output"

	"github.com/sirupsen/logrus"
)

const (
	// maxUserInputLength caps the prompt forwarded to the model (in characters)
	maxUserInputLength = 4000
	// maxLineMessageLength is the LINE limit for one text message (in characters)
	maxLineMessageLength = 5000
	// maxMessagesPerResponse is the LINE limit for messages per reply
	maxMessagesPerResponse = 5
	// sentenceLookback is how far back from the cut point a sentence end is searched for
	sentenceLookback = 200

	warningPrefix        = "⚠️ "
	friendlyErrorMessage = "Sorry, I'm having trouble processing your request right now. Please try again later."
	helpMessage          = "Available commands:\n/help - Show this message\n/chat <prompt> - Ask the LLM\n/chat - Configure the LLM model and temperature\n/echo <text> - Echo your message\n\nAny other text is sent to the LLM."
	welcomeMessage       = "Welcome%s! Thank you for adding me as a friend!\n\nType /help to see available commands."
	joinMessage          = "Hello everyone! Send a message or type /chat <prompt> to ask the LLM.\n\nType /help to see available commands."
	rateLimitedMessage   = "You are sending messages too fast. Please wait a moment and try again."
)

// Compile-time check to ensure LineWebhookService implements input.LineWebhookService interface
var _ input.LineWebhookService = (*LineWebhookService)(nil)

// LineWebhookService struct - Application service implementing LINE webhook use cases
type LineWebhookService struct {
	lineClient     output.LineClient
	chatCommand    input.ChatCommand
	configCallback input.ConfigCallback
	approvedUsers  []string
	limiters       *userLimiters
}

// NewLineWebhookService func - Creates new LINE webhook service.
// An empty approvedUsers list lets everyone talk to the bot.
func NewLineWebhookService(lineClient output.LineClient, chatCommand input.ChatCommand, configCallback input.ConfigCallback, approvedUsers []string) *LineWebhookService {
	return &LineWebhookService{
		lineClient:     lineClient,
		chatCommand:    chatCommand,
		configCallback: configCallback,
		approvedUsers:  approvedUsers,
	}
}

// WithUserRateLimit limits how many prompts per minute each user may send to the model.
// A non-positive perMinute disables the limit.
func (s *LineWebhookService) WithUserRateLimit(perMinute, burst int) *LineWebhookService {
	s.limiters = newUserLimiters(perMinute, burst)
	return s
}

// HandleWebhook func - Use case: Handle incoming webhook events from LINE
func (s *LineWebhookService) HandleWebhook(ctx context.Context, request domain.LineWebhookRequest) error {
	for _, event := range request.Events {
		logrus.Infof("Received LINE event: type=%s, source=%s, userID=%s",
			event.Type, event.Source.Type, event.Source.UserID)

		if !s.isApproved(event) {
			logrus.Warnf("Ignoring event from unapproved user: %s", event.Source.UserID)
			continue
		}

		switch event.Type {
		case domain.LineEventTypeMessage:
			if err := s.handleMessageEvent(ctx, event); err != nil {
				logrus.Errorf("Failed to handle message event: %v", err)
				return err
			}

		case domain.LineEventTypePostback:
			if err := s.handlePostbackEvent(event); err != nil {
				logrus.Errorf("Failed to handle postback event: %v", err)
				return err
			}

		case domain.LineEventTypeFollow:
			if err := s.handleFollowEvent(event); err != nil {
				logrus.Errorf("Failed to handle follow event: %v", err)
				return err
			}

		case domain.LineEventTypeJoin:
			if err := s.send(event, []domain.LineOutgoingMessage{textMessage(joinMessage)}); err != nil {
				logrus.Errorf("Failed to handle join event: %v", err)
				return err
			}

		case domain.LineEventTypeUnfollow, domain.LineEventTypeLeave:
			logrus.Infof("Bot removed: type=%s, conversation=%s", event.Type, event.Source.SessionKey())

		default:
			logrus.Infof("Unhandled event type: %s", event.Type)
		}
	}

	return nil
}

// isApproved checks the sender against approvedUsers.
// Join and leave events carry no sender and always pass.
func (s *LineWebhookService) isApproved(event domain.LineWebhookEvent) bool {
	if event.Type == domain.LineEventTypeJoin || event.Type == domain.LineEventTypeLeave {
		return true
	}
	return len(s.approvedUsers) == 0 || slices.Contains(s.approvedUsers, event.Source.UserID)
}

// handleMessageEvent - Business logic for message events
func (s *LineWebhookService) handleMessageEvent(ctx context.Context, event domain.LineWebhookEvent) error {
	if event.Message == nil {
		return nil
	}

	// Only handle text messages
	if event.Message.Type != domain.LineMessageTypeText {
		logrus.Infof("Ignoring non-text message: type=%s", event.Message.Type)
		return nil
	}

	text := strings.TrimSpace(event.Message.Text)

	var replyMessages []domain.LineOutgoingMessage
	if strings.HasPrefix(text, "/") {
		replyMessages = s.handleCommand(ctx, text, event.Source)
	} else if !s.limiters.Allow(event.Source.UserID) {
		logrus.Warnf("Rate limit exceeded for user %s", event.Source.UserID)
		replyMessages = []domain.LineOutgoingMessage{textMessage(warningPrefix + rateLimitedMessage)}
	} else {
		replyMessages = s.chat(ctx, text, event.Source)
	}

	return s.send(event, replyMessages)
}

// handleCommand - Business logic for command processing
func (s *LineWebhookService) handleCommand(ctx context.Context, text string, source domain.LineSource) []domain.LineOutgoingMessage {
	command, args := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		command, args = text[:i], strings.TrimSpace(text[i:])
	}
	command = strings.ToLower(command)

	switch command {
	case "/help":
		return []domain.LineOutgoingMessage{textMessage(helpMessage)}

	case "/chat":
		if args != "" && !s.limiters.Allow(source.UserID) {
			logrus.Warnf("Rate limit exceeded for user %s", source.UserID)
			return []domain.LineOutgoingMessage{textMessage(warningPrefix + rateLimitedMessage)}
		}
		return s.chat(ctx, args, source)

	case "/echo":
		if args != "" {
			return []domain.LineOutgoingMessage{textMessage(args)}
		}
		return []domain.LineOutgoingMessage{textMessage("Usage: /echo <text>")}

	default:
		return []domain.LineOutgoingMessage{
			textMessage(fmt.Sprintf("Unknown command: %s\nType /help for available commands", command)),
		}
	}
}

// chat runs the chat command for the conversation the event came from
func (s *LineWebhookService) chat(ctx context.Context, prompt string, source domain.LineSource) []domain.LineOutgoingMessage {
	reply, err := s.chatCommand.Execute(ctx, s.truncateUserInput(prompt), source.SessionKey())
	if err != nil {
		logrus.Errorf("Chat command failed for session %s: %v", source.SessionKey(), err)
		return []domain.LineOutgoingMessage{textMessage(friendlyErrorMessage)}
	}
	return s.renderReply(reply)
}

// handlePostbackEvent - Business logic for config form submissions
func (s *LineWebhookService) handlePostbackEvent(event domain.LineWebhookEvent) error {
	if event.Postback == nil {
		return nil
	}

	values, err := url.ParseQuery(event.Postback.Data)
	if err != nil {
		logrus.Warnf("Ignoring malformed postback data %q: %v", event.Postback.Data, err)
		return nil
	}

	if values.Get(domain.PostbackCallbackKey) != domain.ConfigCallbackKeyword {
		logrus.Infof("Ignoring postback with unknown callback: %q", values.Get(domain.PostbackCallbackKey))
		return nil
	}

	inputs := make(map[string]string, len(values)+len(event.Postback.Params))
	for key := range values {
		if key != domain.PostbackCallbackKey {
			inputs[key] = values.Get(key)
		}
	}
	for key, value := range event.Postback.Params {
		inputs[key] = value
	}

	return s.send(event, s.renderReply(s.configCallback.Execute(inputs)))
}

// handleFollowEvent - Business logic for follow events
func (s *LineWebhookService) handleFollowEvent(event domain.LineWebhookEvent) error {
	logrus.Infof("User followed: userID=%s", event.Source.UserID)

	name := ""
	if profile, err := s.lineClient.GetProfile(event.Source.UserID); err != nil {
		logrus.Warnf("Could not load profile of %s: %v", event.Source.UserID, err)
	} else if profile.DisplayName != "" {
		name = ", " + profile.DisplayName
	}

	welcomeMsg := domain.LinePushMessageRequest{
		To:       event.Source.UserID,
		Messages: []domain.LineOutgoingMessage{textMessage(fmt.Sprintf(welcomeMessage, name))},
	}

	if _, err := s.lineClient.PushMessage(welcomeMsg); err != nil {
		return fmt.Errorf("failed to send welcome message: %w", err)
	}

	return nil
}

// renderReply converts a command reply to LINE messages
func (s *LineWebhookService) renderReply(reply *domain.Reply) []domain.LineOutgoingMessage {
	if reply == nil {
		return nil
	}

	switch reply.Level {
	case domain.ReplyLevelWarning:
		return []domain.LineOutgoingMessage{textMessage(warningPrefix + reply.Text)}

	case domain.ReplyLevelForm:
		return []domain.LineOutgoingMessage{
			{
				Type: domain.LineMessageTypeFlex,
				Text: reply.Text,
				Form: reply.Form,
			},
		}

	default:
		chunks := s.splitAIResponse(reply.Text)
		messages := make([]domain.LineOutgoingMessage, 0, len(chunks))
		for _, chunk := range chunks {
			messages = append(messages, textMessage(chunk))
		}
		return messages
	}
}

// send replies with the first message and pushes the rest to the conversation.
// The reply token is single use, so later chunks go out as push messages.
func (s *LineWebhookService) send(event domain.LineWebhookEvent, messages []domain.LineOutgoingMessage) error {
	if len(messages) == 0 || event.ReplyToken == "" {
		return nil
	}

	replyReq := domain.LineReplyMessageRequest{
		ReplyToken: event.ReplyToken,
		Messages:   messages[:1],
	}
	if _, err := s.lineClient.ReplyMessage(replyReq); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	for i, msg := range messages[1:] {
		pushReq := domain.LinePushMessageRequest{
			To:       event.Source.SessionKey(),
			Messages: []domain.LineOutgoingMessage{msg},
		}
		if _, err := s.lineClient.PushMessage(pushReq); err != nil {
			return fmt.Errorf("failed to push message %d: %w", i+2, err)
		}
	}

	return nil
}

// truncateUserInput cuts the prompt to maxUserInputLength characters
func (s *LineWebhookService) truncateUserInput(text string) string {
	if utf8.RuneCountInString(text) <= maxUserInputLength {
		return text
	}
	logrus.Warnf("User input truncated from %d to %d characters", utf8.RuneCountInString(text), maxUserInputLength)
	return string([]rune(text)[:maxUserInputLength])
}

// splitAIResponse splits a long answer into at most maxMessagesPerResponse chunks of
// maxLineMessageLength characters, preferring to cut right after a sentence end.
// Text beyond the last chunk is dropped.
func (s *LineWebhookService) splitAIResponse(text string) []string {
	runes := []rune(text)
	if len(runes) <= maxLineMessageLength {
		return []string{text}
	}

	chunks := make([]string, 0, maxMessagesPerResponse)
	for len(runes) > 0 && len(chunks) < maxMessagesPerResponse {
		if len(runes) <= maxLineMessageLength {
			chunks = append(chunks, string(runes))
			break
		}

		cut := sentenceCut(runes[:maxLineMessageLength])
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}

	return chunks
}

// sentenceCut returns the index just past the last sentence end within the lookback
// window, or the full length when there is none
func sentenceCut(chunk []rune) int {
	limit := len(chunk) - sentenceLookback
	for i := len(chunk) - 1; i >= limit && i > 0; i-- {
		switch chunk[i-1] {
		case '.', '!', '?', '\n':
			if chunk[i] == ' ' || chunk[i] == '\n' {
				return i + 1
			}
		}
	}
	return len(chunk)
}

func textMessage(text string) domain.LineOutgoingMessage {
	return domain.LineOutgoingMessage{
		Type: domain.LineMessageTypeText,
		Text: text,
	}
}
