package usecases

import (
	"context"
	"fmt"

	"contact_relay/internal/entities"
	"contact_relay/internal/interfaces"
	"contact_relay/internal/metrics"

	"github.com/rs/zerolog"
)

// ContactNotifier delivers contact and reminder messages to one chat.
// A nil error means the chat accepted the message; failures are logged here
// and returned so the caller can pick its own response.
type ContactNotifier struct {
	chat     interfaces.ChatClient
	chatID   string
	format   Formatter
	adminURL string
	metrics  *metrics.RelayMetrics
	log      zerolog.Logger
}

func NewContactNotifier(chat interfaces.ChatClient, chatID, adminURL string, m *metrics.RelayMetrics, log zerolog.Logger) *ContactNotifier {
	return &ContactNotifier{
		chat:     chat,
		chatID:   chatID,
		format:   Formatter{AdminURL: adminURL},
		adminURL: adminURL,
		metrics:  m,
		log:      log,
	}
}

// SendNewContact sends exactly one message. Contacts with an id get the
// processed/tomorrow actions and the admin link.
func (n *ContactNotifier) SendNewContact(ctx context.Context, c entities.ContactNotification) error {
	var kb entities.Keyboard
	if c.HasContactID() {
		kb = ContactKeyboard(*c.ContactID, n.adminURL)
	}

	err := n.chat.SendHTML(ctx, n.chatID, n.format.NewContact(c), kb)
	n.metrics.ObserveNotification("new_contact", err)
	if err != nil {
		n.log.Error().Err(err).Str("name", c.Name).Msg("new contact notification failed")
		return fmt.Errorf("send new contact: %w", err)
	}
	n.log.Info().Str("name", c.Name).Msg("new contact notification sent")
	return nil
}

func (n *ContactNotifier) SendReminder(ctx context.Context, name, phone, note string) error {
	err := n.chat.SendHTML(ctx, n.chatID, n.format.Reminder(name, phone, note), nil)
	n.metrics.ObserveNotification("reminder", err)
	if err != nil {
		n.log.Error().Err(err).Str("name", name).Msg("reminder failed")
		return fmt.Errorf("send reminder: %w", err)
	}
	n.log.Info().Str("name", name).Msg("reminder sent")
	return nil
}

func (n *ContactNotifier) SendDueReminder(ctx context.Context, r entities.ReminderRecord) error {
	err := n.chat.SendHTML(ctx, n.chatID, n.format.DueReminder(r), nil)
	n.metrics.ObserveNotification("due_reminder", err)
	if err != nil {
		n.log.Error().Err(err).Int64("contact_id", r.ContactID).Msg("due reminder failed")
		return fmt.Errorf("send due reminder %d: %w", r.ContactID, err)
	}
	return nil
}

// Annotate appends resultText to the message in a single edit. keyboard
// becomes the message's button set.
func (n *ContactNotifier) Annotate(ctx context.Context, ref entities.MessageRef, resultText string, keyboard entities.Keyboard) error {
	if err := n.chat.EditText(ctx, ref, Annotate(ref.Text, resultText), keyboard); err != nil {
		n.log.Error().Err(err).Int("message_id", ref.MessageID).Msg("annotate message failed")
		return fmt.Errorf("annotate message %d: %w", ref.MessageID, err)
	}
	return nil
}

// ClearActionsAndAnnotate removes all buttons, then appends resultText.
// The two edits are not atomic: if the second fails the message is left
// without buttons and without the annotation. Calling it twice appends twice.
func (n *ContactNotifier) ClearActionsAndAnnotate(ctx context.Context, ref entities.MessageRef, resultText string) error {
	if err := n.chat.EditKeyboard(ctx, ref, nil); err != nil {
		n.log.Error().Err(err).Int("message_id", ref.MessageID).Msg("remove buttons failed")
		return fmt.Errorf("remove buttons %d: %w", ref.MessageID, err)
	}
	if err := n.chat.EditText(ctx, ref, Annotate(ref.Text, resultText), nil); err != nil {
		n.log.Warn().Err(err).Int("message_id", ref.MessageID).Msg("buttons removed but annotation failed")
		return fmt.Errorf("annotate message %d: %w", ref.MessageID, err)
	}
	return nil
}
