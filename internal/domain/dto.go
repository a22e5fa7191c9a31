package domain

// LINE request/response DTOs exchanged with the LINE client port
type (
	// LineWebhookRequest - events of one webhook delivery
	LineWebhookRequest struct {
		Events []LineWebhookEvent
	}

	// LineReplyMessageRequest - answer bound to a single-use reply token
	LineReplyMessageRequest struct {
		ReplyToken string
		Messages   []LineOutgoingMessage
	}

	// LinePushMessageRequest - message pushed to a user, group or room
	LinePushMessageRequest struct {
		To       string
		Messages []LineOutgoingMessage
	}

	// LineOutgoingMessage - text, or a flex bubble rendering Form with Text as alt text
	LineOutgoingMessage struct {
		Type LineMessageType
		Text string
		Form *ConfigForm
	}

	// LineMessageResponse - outcome of a send
	LineMessageResponse struct {
		Status  string
		Message string
	}
)
