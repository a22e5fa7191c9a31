package domain

// ReplyLevel classifies a command reply for rendering
type ReplyLevel string

const (
	// ReplyLevelInfo - Regular answer or confirmation
	ReplyLevelInfo ReplyLevel = "info"
	// ReplyLevelWarning - Precondition failure shown to the user
	ReplyLevelWarning ReplyLevel = "warning"
	// ReplyLevelForm - Interactive configuration form
	ReplyLevelForm ReplyLevel = "form"
)

// Reply is the result of a chat command, independent of the messaging platform
type Reply struct {
	Level ReplyLevel
	Text  string
	Form  *ConfigForm
}

// InfoReply creates an informational reply
func InfoReply(text string) *Reply {
	return &Reply{Level: ReplyLevelInfo, Text: text}
}

// WarningReply creates a warning reply
func WarningReply(text string) *Reply {
	return &Reply{Level: ReplyLevelWarning, Text: text}
}

// FormReply creates a reply carrying the config form
func FormReply(form *ConfigForm) *Reply {
	return &Reply{Level: ReplyLevelForm, Text: form.Title, Form: form}
}
