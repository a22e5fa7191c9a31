package line

import (
	"fmt"
	"net/url"

	"llm-chat-bot/internal/domain"
	"llm-chat-bot/internal/ports/output"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/sirupsen/logrus"
)

// maxButtonLabelLength is the LINE limit for a button label (in characters)
const maxButtonLabelLength = 20

// Compile-time check to ensure LineClientAdapter implements LineClient interface
var _ output.LineClient = (*LineClientAdapter)(nil)

// LineClientAdapter struct - Output adapter for LINE messaging platform
type LineClientAdapter struct {
	client *messaging_api.MessagingApiAPI
}

// NewLineClientAdapter func - Creates new LINE client adapter
func NewLineClientAdapter(channelToken string) (*LineClientAdapter, error) {
	client, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE messaging API client: %w", err)
	}

	return &LineClientAdapter{
		client: client,
	}, nil
}

// ReplyMessage - Sends reply messages to LINE user via reply token
func (a *LineClientAdapter) ReplyMessage(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error) {
	messages, err := a.convertMessages(request.Messages)
	if err != nil {
		return nil, err
	}

	req := &messaging_api.ReplyMessageRequest{
		ReplyToken: request.ReplyToken,
		Messages:   messages,
	}

	if _, err := a.client.ReplyMessage(req); err != nil {
		return nil, fmt.Errorf("failed to send reply message: %w", err)
	}

	logrus.Infof("Successfully sent reply message with token: %s", request.ReplyToken)

	return &domain.LineMessageResponse{
		Status:  "success",
		Message: "Reply message sent successfully",
	}, nil
}

// PushMessage - Sends push messages to a LINE user, group or room directly
func (a *LineClientAdapter) PushMessage(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error) {
	messages, err := a.convertMessages(request.Messages)
	if err != nil {
		return nil, err
	}

	req := &messaging_api.PushMessageRequest{
		To:       request.To,
		Messages: messages,
	}

	if _, err := a.client.PushMessage(req, ""); err != nil {
		return nil, fmt.Errorf("failed to send push message: %w", err)
	}

	logrus.Infof("Successfully sent push message to: %s", request.To)

	return &domain.LineMessageResponse{
		Status:  "success",
		Message: "Push message sent successfully",
	}, nil
}

// GetProfile - Gets user profile information
func (a *LineClientAdapter) GetProfile(userID string) (*domain.LineProfile, error) {
	profile, err := a.client.GetProfile(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	return &domain.LineProfile{
		UserID:      profile.UserId,
		DisplayName: profile.DisplayName,
	}, nil
}

// convertMessages converts domain messages, skipping the ones LINE cannot render
func (a *LineClientAdapter) convertMessages(msgs []domain.LineOutgoingMessage) ([]messaging_api.MessageInterface, error) {
	messages := make([]messaging_api.MessageInterface, 0, len(msgs))

	for _, msg := range msgs {
		lineMsg, err := convertToLineMessage(msg)
		if err != nil {
			logrus.Errorf("Failed to convert message: %v", err)
			continue
		}
		messages = append(messages, lineMsg)
	}

	if len(messages) == 0 {
		return nil, fmt.Errorf("no valid messages to send")
	}

	return messages, nil
}

// convertToLineMessage - Helper function to convert domain message to LINE SDK message
func convertToLineMessage(msg domain.LineOutgoingMessage) (messaging_api.MessageInterface, error) {
	switch msg.Type {
	case domain.LineMessageTypeText:
		return &messaging_api.TextMessage{
			Text: msg.Text,
		}, nil

	case domain.LineMessageTypeFlex:
		if msg.Form == nil {
			return nil, fmt.Errorf("flex message without form")
		}
		altText := msg.Text
		if altText == "" {
			altText = msg.Form.Title
		}
		return &messaging_api.FlexMessage{
			AltText:  altText,
			Contents: buildConfigBubble(msg.Form),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", msg.Type)
	}
}

// buildConfigBubble renders the config form as a bubble with one postback button per choice.
// Pressing a button submits that single field; the current value is highlighted.
func buildConfigBubble(form *domain.ConfigForm) *messaging_api.FlexBubble {
	contents := []messaging_api.FlexComponentInterface{
		&messaging_api.FlexText{Text: form.Title, Weight: messaging_api.FlexTextWEIGHT_BOLD, Wrap: true},
		&messaging_api.FlexText{Text: form.Subtitle, Wrap: true},
		&messaging_api.FlexSeparator{},
		&messaging_api.FlexText{Text: "LLM Model:", Weight: messaging_api.FlexTextWEIGHT_BOLD, Wrap: true},
	}

	if len(form.ModelChoices) == 0 {
		contents = append(contents, &messaging_api.FlexText{Text: "No models available", Wrap: true})
	}
	for _, choice := range form.ModelChoices {
		contents = append(contents, choiceButton(form, domain.FormFieldModel, choice, choice.Value == form.SelectedModel))
	}

	contents = append(contents,
		&messaging_api.FlexSeparator{},
		&messaging_api.FlexText{Text: "Temperature:", Weight: messaging_api.FlexTextWEIGHT_BOLD, Wrap: true},
	)
	for _, choice := range form.TemperatureChoices {
		contents = append(contents, choiceButton(form, domain.FormFieldTemperature, choice, choice.Value == form.SelectedTemperature))
	}

	return &messaging_api.FlexBubble{
		Body: &messaging_api.FlexBox{
			Layout:   messaging_api.FlexBoxLAYOUT_VERTICAL,
			Contents: contents,
		},
	}
}

func choiceButton(form *domain.ConfigForm, field string, choice domain.Choice, selected bool) *messaging_api.FlexButton {
	style := messaging_api.FlexButtonSTYLE_SECONDARY
	if selected {
		style = messaging_api.FlexButtonSTYLE_PRIMARY
	}

	return &messaging_api.FlexButton{
		Style: style,
		Action: &messaging_api.PostbackAction{
			Label:       buttonLabel(choice.Title),
			Data:        postbackData(form.CallbackKeyword, field, choice.Value),
			DisplayText: choice.Title,
		},
	}
}

// postbackData encodes a single form field submission
func postbackData(keyword, field, value string) string {
	return url.Values{
		domain.PostbackCallbackKey: {keyword},
		field:                      {value},
	}.Encode()
}

func buttonLabel(title string) string {
	runes := []rune(title)
	if len(runes) <= maxButtonLabelLength {
		return title
	}
	return string(runes[:maxButtonLabelLength-1]) + "…"
}
