package output

import "llm-chat-bot/internal/domain"

// LineClient interface - Output port for sending chat replies through LINE
type LineClient interface {
	// ReplyMessage answers an event; the reply token is valid once
	ReplyMessage(request domain.LineReplyMessageRequest) (*domain.LineMessageResponse, error)

	// PushMessage sends to a user, group or room without a reply token
	PushMessage(request domain.LinePushMessageRequest) (*domain.LineMessageResponse, error)

	// GetProfile looks up a user's display name
	GetProfile(userID string) (*domain.LineProfile, error)
}
