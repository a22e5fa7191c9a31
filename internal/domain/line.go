package domain

// LineEventType is the webhook event type as LINE names it
type LineEventType string

// Event types the bot reacts to
const (
	LineEventTypeMessage  LineEventType = "message"
	LineEventTypePostback LineEventType = "postback"
	LineEventTypeFollow   LineEventType = "follow"
	LineEventTypeUnfollow LineEventType = "unfollow"
	LineEventTypeJoin     LineEventType = "join"
	LineEventTypeLeave    LineEventType = "leave"
)

// LineMessageType is the message type as LINE names it.
// Incoming messages carry whatever type LINE reports; only text is answered.
type LineMessageType string

const (
	// LineMessageTypeText - Text message
	LineMessageTypeText LineMessageType = "text"
	// LineMessageTypeFlex - Flex message, outgoing only
	LineMessageTypeFlex LineMessageType = "flex"
)

// LineSourceType represents the source type of the event
type LineSourceType string

const (
	LineSourceTypeUser  LineSourceType = "user"
	LineSourceTypeGroup LineSourceType = "group"
	LineSourceTypeRoom  LineSourceType = "room"
)

// LineWebhookEvent is one webhook event reduced to what the bot needs
type LineWebhookEvent struct {
	Type       LineEventType
	Source     LineSource
	ReplyToken string
	Message    *LineMessage
	Postback   *LinePostback
}

// LineSource identifies who sent the event and from which conversation
type LineSource struct {
	Type    LineSourceType
	UserID  string
	GroupID string
	RoomID  string
}

// LineMessage is an incoming chat message
type LineMessage struct {
	ID   string
	Type LineMessageType
	Text string
}

// LinePostback is the payload of a pressed postback button
type LinePostback struct {
	Data   string
	Params map[string]string
}

// LineProfile is the public profile of a LINE user
type LineProfile struct {
	UserID      string
	DisplayName string
}

// SessionKey returns the conversation identifier used to scope chat history:
// the group or room when the event comes from one, otherwise the user.
func (s LineSource) SessionKey() string {
	switch {
	case s.GroupID != "":
		return s.GroupID
	case s.RoomID != "":
		return s.RoomID
	default:
		return s.UserID
	}
}
