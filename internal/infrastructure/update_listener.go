package infrastructure

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"contact_relay/internal/entities"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// CallbackHandler handles one inline button press.
type CallbackHandler interface {
	HandleCallback(ctx context.Context, ev entities.CallbackEvent)
}

// updateSource is the long-polling half of *tgbotapi.BotAPI.
type updateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// UpdateListener long-polls Telegram and fans callback queries out to a
// handler, one goroutine per event.
type UpdateListener struct {
	source   updateSource
	chat     *TelegramClient
	handler  CallbackHandler
	log      zerolog.Logger
	timeout  int
	inflight sync.WaitGroup
}

func NewUpdateListener(source updateSource, chat *TelegramClient, handler CallbackHandler, log zerolog.Logger) *UpdateListener {
	return &UpdateListener{
		source:  source,
		chat:    chat,
		handler: handler,
		log:     log,
		timeout: 60,
	}
}

// Run blocks until ctx is cancelled, then waits for in-flight handlers.
func (l *UpdateListener) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = l.timeout
	u.AllowedUpdates = []string{"message", "callback_query"}
	updates := l.source.GetUpdatesChan(u)

	l.log.Info().Msg("telegram polling started")
	defer l.inflight.Wait()

	for {
		select {
		case <-ctx.Done():
			l.source.StopReceivingUpdates()
			l.log.Info().Msg("telegram polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			l.dispatch(ctx, update)
		}
	}
}

func (l *UpdateListener) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		ev, ok := callbackEvent(update.CallbackQuery)
		if !ok {
			// Inline-mode messages carry no chat message to annotate.
			_ = l.chat.AnswerCallback(ctx, update.CallbackQuery.ID, "")
			return
		}
		l.inflight.Add(1)
		go func() {
			defer l.inflight.Done()
			defer l.recoverPanic(ev)
			l.handler.HandleCallback(ctx, ev)
		}()
	case update.Message != nil && update.Message.IsCommand():
		l.handleCommand(ctx, update.Message)
	}
}

// handleCommand answers /start and /chatid with the chat id so operators can
// fill TELEGRAM_CHAT_ID. Only private chats get an answer.
func (l *UpdateListener) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil || !msg.Chat.IsPrivate() {
		l.log.Debug().Str("command", msg.Command()).Msg("ignoring command outside a private chat")
		return
	}
	switch msg.Command() {
	case "start", "chatid":
		chatID := strconv.FormatInt(msg.Chat.ID, 10)
		text := fmt.Sprintf("👋 Contact notifications bot.\nThis chat id: <code>%s</code>", chatID)
		if err := l.chat.SendHTML(ctx, chatID, text, nil); err != nil {
			l.log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("reply to command failed")
		}
	}
}

func (l *UpdateListener) recoverPanic(ev entities.CallbackEvent) {
	if r := recover(); r != nil {
		l.log.Error().
			Str("callback_data", ev.Data).
			Int("message_id", ev.Message.MessageID).
			Interface("panic", r).
			Msg("callback handler panicked")
	}
}

func callbackEvent(cq *tgbotapi.CallbackQuery) (entities.CallbackEvent, bool) {
	if cq.Message == nil || cq.Message.Chat == nil {
		return entities.CallbackEvent{}, false
	}
	return entities.CallbackEvent{
		ID:   cq.ID,
		Data: cq.Data,
		Message: entities.MessageRef{
			ChatID:    cq.Message.Chat.ID,
			MessageID: cq.Message.MessageID,
			Text:      cq.Message.Text,
			Keyboard:  fromMarkup(cq.Message.ReplyMarkup),
		},
	}, true
}
