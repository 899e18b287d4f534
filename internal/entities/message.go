package entities

// Button is a single inline button. Exactly one of Data or URL is set.
type Button struct {
	Text string
	Data string
	URL  string
}

// Keyboard is a set of inline button rows attached to a chat message.
// A nil Keyboard means "no buttons".
type Keyboard [][]Button

// MessageRef points at a message that was already delivered to the chat.
type MessageRef struct {
	ChatID    int64
	MessageID int
	Text      string   // plain text as the chat returned it
	Keyboard  Keyboard // buttons currently attached
}

// CallbackEvent is an inline button press.
type CallbackEvent struct {
	ID      string
	Data    string
	Message MessageRef
}
