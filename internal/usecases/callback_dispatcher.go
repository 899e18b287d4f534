package usecases

import (
	"context"
	"errors"
	"time"

	"contact_relay/internal/entities"
	"contact_relay/internal/interfaces"
	"contact_relay/internal/metrics"

	"github.com/rs/zerolog"
)

const (
	// RemindAtLayout is the backend's set-reminder time format.
	RemindAtLayout = "2006-01-02 15:04"
	reminderHour   = 9

	processedStatus = "processed"
	processedNote   = "Processed"
	noteAuthor      = "Telegram Bot"
)

// Callback outcomes, also used as metric labels.
const (
	outcomeOK           = "ok"
	outcomeRejected     = "rejected"
	outcomeBackendError = "backend_error"
	outcomeChatError    = "chat_error"
	outcomePanic        = "panic"
)

// CallbackDispatcher handles inline button presses on contact messages.
// It keeps no state between events.
type CallbackDispatcher struct {
	chat     interfaces.ChatClient
	notifier interfaces.Notifier
	backend  interfaces.BackendAPI
	adminURL string
	location *time.Location
	now      func() time.Time
	metrics  *metrics.RelayMetrics
	log      zerolog.Logger
}

func NewCallbackDispatcher(chat interfaces.ChatClient, notifier interfaces.Notifier, backend interfaces.BackendAPI, adminURL string, loc *time.Location, m *metrics.RelayMetrics, log zerolog.Logger) *CallbackDispatcher {
	if loc == nil {
		loc = time.Local
	}
	return &CallbackDispatcher{
		chat:     chat,
		notifier: notifier,
		backend:  backend,
		adminURL: adminURL,
		location: loc,
		now:      time.Now,
		metrics:  m,
		log:      log,
	}
}

// HandleCallback acknowledges, parses, dispatches and reports in that order.
func (d *CallbackDispatcher) HandleCallback(ctx context.Context, ev entities.CallbackEvent) {
	defer d.recoverPanic(ctx, ev)

	if err := d.chat.AnswerCallback(ctx, ev.ID, ""); err != nil {
		d.log.Warn().Err(err).Str("callback_id", ev.ID).Msg("answer callback failed")
	}

	token, err := entities.ParseActionToken(ev.Data)
	action := token.Action.String()

	var outcome string
	switch {
	case err != nil:
		outcome = d.reject(ctx, ev, err)
	case token.Action == entities.ActionProcessed:
		outcome = d.markProcessed(ctx, ev, token.ContactID)
	case token.Action == entities.ActionTomorrow:
		outcome = d.remindTomorrow(ctx, ev, token.ContactID)
	default:
		outcome = d.reject(ctx, ev, entities.ErrUnknownAction)
	}

	d.metrics.ObserveCallback(action, outcome)
}

func (d *CallbackDispatcher) reject(ctx context.Context, ev entities.CallbackEvent, err error) string {
	d.log.Error().Err(err).Str("callback_data", ev.Data).Msg("rejected callback")

	text := "❌ Error: invalid data format"
	switch {
	case errors.Is(err, entities.ErrInvalidContactID):
		text = "❌ Error: invalid contact id"
	case errors.Is(err, entities.ErrUnknownAction):
		text = "❌ Error: unknown action"
	}
	d.annotateFailure(ctx, ev, text)
	return outcomeRejected
}

func (d *CallbackDispatcher) markProcessed(ctx context.Context, ev entities.CallbackEvent, contactID int64) string {
	log := d.log.With().Int64("contact_id", contactID).Str("action", "processed").Logger()

	if err := d.backend.UpdateStatus(ctx, contactID, processedStatus); err != nil {
		log.Error().Err(err).Msg("update status failed")
		d.annotateFailure(ctx, ev, "❌ Failed to process the request")
		return outcomeBackendError
	}
	if err := d.backend.AddNote(ctx, contactID, processedNote, noteAuthor); err != nil {
		log.Error().Err(err).Msg("add note failed")
		d.annotateFailure(ctx, ev, "❌ Failed to process the request")
		return outcomeBackendError
	}

	if err := d.annotateSuccess(ctx, ev, "✅ <b>Processed</b>"); err != nil {
		return outcomeChatError
	}
	log.Info().Msg("contact marked processed")
	return outcomeOK
}

func (d *CallbackDispatcher) remindTomorrow(ctx context.Context, ev entities.CallbackEvent, contactID int64) string {
	log := d.log.With().Int64("contact_id", contactID).Str("action", "tomorrow").Logger()

	remindAt := NextMorning(d.now(), d.location)
	if err := d.backend.SetReminder(ctx, contactID, remindAt.Format(RemindAtLayout)); err != nil {
		log.Error().Err(err).Msg("set reminder failed")
		d.annotateFailure(ctx, ev, "❌ Failed to set the reminder")
		return outcomeBackendError
	}

	text := "🔔 <b>Reminder set for " + remindAt.Format("02.01.2006") + " at 09:00</b>"
	if err := d.annotateSuccess(ctx, ev, text); err != nil {
		return outcomeChatError
	}
	log.Info().Str("remind_at", remindAt.Format(RemindAtLayout)).Msg("reminder scheduled")
	return outcomeOK
}

// annotateSuccess swaps the action buttons for the admin link, or drops them
// entirely when no admin URL is configured.
func (d *CallbackDispatcher) annotateSuccess(ctx context.Context, ev entities.CallbackEvent, text string) error {
	if kb := AdminKeyboard(d.adminURL); kb != nil {
		return d.notifier.Annotate(ctx, ev.Message, text, kb)
	}
	return d.notifier.ClearActionsAndAnnotate(ctx, ev.Message, text)
}

func (d *CallbackDispatcher) recoverPanic(ctx context.Context, ev entities.CallbackEvent) {
	r := recover()
	if r == nil {
		return
	}
	d.log.Error().Interface("panic", r).Str("callback_data", ev.Data).Msg("callback handling panicked")
	d.metrics.ObserveCallback(entities.ActionUnknown.String(), outcomePanic)
	d.annotateFailure(ctx, ev, "❌ Unexpected error")
}

// annotateFailure keeps whatever buttons the message already had.
func (d *CallbackDispatcher) annotateFailure(ctx context.Context, ev entities.CallbackEvent, text string) {
	_ = d.notifier.Annotate(ctx, ev.Message, text, ev.Message.Keyboard)
}

// NextMorning is 09:00 on the day after now, in loc.
func NextMorning(now time.Time, loc *time.Location) time.Time {
	next := now.In(loc).AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), reminderHour, 0, 0, 0, loc)
}
