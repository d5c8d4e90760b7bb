package models

// MessageKind classifies a user-facing message.
type MessageKind string

const (
	MessageNone    MessageKind = ""
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is a transient notice shown next to a form.
type Message struct {
	Text string
	Kind MessageKind
}

// SuccessMessage builds a success notice.
func SuccessMessage(text string) Message {
	return Message{Text: text, Kind: MessageSuccess}
}

// ErrorMessage builds an error notice.
func ErrorMessage(text string) Message {
	return Message{Text: text, Kind: MessageError}
}

// IsZero reports whether there is nothing to show.
func (m Message) IsZero() bool {
	return m.Text == ""
}

// Integration identifies an external service the backend can be configured for.
type Integration string

const (
	IntegrationTelegram Integration = "telegram"
	IntegrationOpenAI   Integration = "openai"
)
