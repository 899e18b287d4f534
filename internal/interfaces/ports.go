package interfaces

import (
	"context"

	"contact_relay/internal/entities"
)

// ChatClient is the outbound side of the chat platform.
type ChatClient interface {
	// SendHTML delivers an HTML-formatted message to chat (numeric id or @channel).
	SendHTML(ctx context.Context, chat, text string, keyboard entities.Keyboard) error
	// EditText replaces the text of a delivered message. keyboard becomes the
	// message's new button set; nil drops all buttons.
	EditText(ctx context.Context, ref entities.MessageRef, text string, keyboard entities.Keyboard) error
	// EditKeyboard replaces only the buttons of a delivered message.
	EditKeyboard(ctx context.Context, ref entities.MessageRef, keyboard entities.Keyboard) error
	// AnswerCallback acknowledges a button press.
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// BackendAPI is the website backend's bot-facing REST API.
type BackendAPI interface {
	UpdateStatus(ctx context.Context, contactID int64, status string) error
	AddNote(ctx context.Context, contactID int64, text, author string) error
	SetReminder(ctx context.Context, contactID int64, remindAt string) error
	DueReminders(ctx context.Context) ([]entities.ReminderRecord, error)
	MarkReminderSent(ctx context.Context, contactID int64) error
}

// Notifier delivers formatted messages to the configured chat.
type Notifier interface {
	SendNewContact(ctx context.Context, n entities.ContactNotification) error
	SendReminder(ctx context.Context, name, phone, note string) error
	SendDueReminder(ctx context.Context, r entities.ReminderRecord) error
	Annotate(ctx context.Context, ref entities.MessageRef, resultText string, keyboard entities.Keyboard) error
	ClearActionsAndAnnotate(ctx context.Context, ref entities.MessageRef, resultText string) error
}
