package http

import (
	"llm-chat-bot/internal/domain"
	"llm-chat-bot/internal/ports/input"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/sirupsen/logrus"
)

// LineWebhookHandler struct - Driving adapter turning signed LINE deliveries into domain events
type LineWebhookHandler struct {
	service       input.LineWebhookService
	channelSecret string
}

// NewLineWebhookHandler func - Creates new LINE webhook handler
func NewLineWebhookHandler(service input.LineWebhookService, channelSecret string) *LineWebhookHandler {
	return &LineWebhookHandler{
		service:       service,
		channelSecret: channelSecret,
	}
}

// HandleWebhook func - Handles incoming LINE webhook requests
// @Summary LINE Webhook
// @Description Receives signed webhook events from the LINE Messaging API
// @Tags LINE
// @Accept application/json
// @Produce json
// @Success 200 {object} ResponseBody
// @Failure 400 {object} ResponseBody
// @Failure 500 {object} ResponseBody
// @Router /webhook/line [post]
func (h *LineWebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	// the SDK verifies the signature on a net/http request
	httpReq, err := adaptor.ConvertRequest(c, false)
	if err != nil {
		logrus.Errorf("Failed to convert webhook request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}

	cb, err := webhook.ParseRequest(h.channelSecret, httpReq)
	if err != nil {
		logrus.Errorf("Failed to parse webhook request: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(badRequest(err))
	}

	events := make([]domain.LineWebhookEvent, 0, len(cb.Events))
	for _, event := range cb.Events {
		if domainEvent, ok := convertEvent(event); ok {
			events = append(events, domainEvent)
		}
	}

	if err := h.service.HandleWebhook(c.UserContext(), domain.LineWebhookRequest{Events: events}); err != nil {
		logrus.Errorf("Failed to handle webhook: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}

	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success})
}

// convertEvent keeps the events the bot reacts to
func convertEvent(event webhook.EventInterface) (domain.LineWebhookEvent, bool) {
	switch e := event.(type) {
	case webhook.MessageEvent:
		msg, ok := convertMessage(e.Message)
		if !ok {
			return domain.LineWebhookEvent{}, false
		}
		return domain.LineWebhookEvent{
			Type:       domain.LineEventTypeMessage,
			ReplyToken: e.ReplyToken,
			Source:     convertSource(e.Source),
			Message:    msg,
		}, true

	case webhook.PostbackEvent:
		if e.Postback == nil {
			return domain.LineWebhookEvent{}, false
		}
		return domain.LineWebhookEvent{
			Type:       domain.LineEventTypePostback,
			ReplyToken: e.ReplyToken,
			Source:     convertSource(e.Source),
			Postback: &domain.LinePostback{
				Data:   e.Postback.Data,
				Params: e.Postback.Params,
			},
		}, true

	case webhook.FollowEvent:
		return domain.LineWebhookEvent{
			Type:       domain.LineEventTypeFollow,
			ReplyToken: e.ReplyToken,
			Source:     convertSource(e.Source),
		}, true

	case webhook.UnfollowEvent:
		return domain.LineWebhookEvent{Type: domain.LineEventTypeUnfollow, Source: convertSource(e.Source)}, true

	case webhook.JoinEvent:
		return domain.LineWebhookEvent{
			Type:       domain.LineEventTypeJoin,
			ReplyToken: e.ReplyToken,
			Source:     convertSource(e.Source),
		}, true

	case webhook.LeaveEvent:
		return domain.LineWebhookEvent{Type: domain.LineEventTypeLeave, Source: convertSource(e.Source)}, true

	default:
		logrus.Debugf("Skipping event type: %T", event)
		return domain.LineWebhookEvent{}, false
	}
}

// convertMessage keeps text as is; other kinds only report their type
func convertMessage(content webhook.MessageContentInterface) (*domain.LineMessage, bool) {
	switch m := content.(type) {
	case webhook.TextMessageContent:
		return &domain.LineMessage{ID: m.Id, Type: domain.LineMessageTypeText, Text: m.Text}, true
	case nil:
		return nil, false
	default:
		return &domain.LineMessage{Type: domain.LineMessageType(m.GetType())}, true
	}
}

func convertSource(source webhook.SourceInterface) domain.LineSource {
	switch s := source.(type) {
	case webhook.UserSource:
		return domain.LineSource{Type: domain.LineSourceTypeUser, UserID: s.UserId}
	case webhook.GroupSource:
		return domain.LineSource{Type: domain.LineSourceTypeGroup, UserID: s.UserId, GroupID: s.GroupId}
	case webhook.RoomSource:
		return domain.LineSource{Type: domain.LineSourceTypeRoom, UserID: s.UserId, RoomID: s.RoomId}
	default:
		return domain.LineSource{}
	}
}
