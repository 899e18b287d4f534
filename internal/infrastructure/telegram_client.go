package infrastructure

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"contact_relay/internal/entities"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// botAPI is the subset of *tgbotapi.BotAPI the client uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// TelegramClient implements interfaces.ChatClient on top of the Bot API.
type TelegramClient struct {
	bot     botAPI
	limiter *SendLimiter
}

// NewTelegramBot connects with token and verifies it via getMe.
func NewTelegramBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return bot, nil
}

func NewTelegramClient(bot botAPI, limiter *SendLimiter) *TelegramClient {
	return &TelegramClient{bot: bot, limiter: limiter}
}

func (t *TelegramClient) SendHTML(ctx context.Context, chat, text string, keyboard entities.Keyboard) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	var msg tgbotapi.MessageConfig
	if chatID, err := strconv.ParseInt(chat, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(chatID, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(normalizeChannel(chat), text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	if markup := toMarkup(keyboard); markup != nil {
		msg.ReplyMarkup = *markup
	}

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func (t *TelegramClient) EditText(ctx context.Context, ref entities.MessageRef, text string, keyboard entities.Keyboard) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = toMarkup(keyboard)

	if _, err := t.bot.Send(edit); err != nil {
		return fmt.Errorf("telegram edit text: %w", err)
	}
	return nil
}

func (t *TelegramClient) EditKeyboard(ctx context.Context, ref entities.MessageRef, keyboard entities.Keyboard) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	markup := emptyMarkup()
	if m := toMarkup(keyboard); m != nil {
		markup = *m
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(ref.ChatID, ref.MessageID, markup)

	if _, err := t.bot.Send(edit); err != nil {
		return fmt.Errorf("telegram edit keyboard: %w", err)
	}
	return nil
}

// AnswerCallback is not rate limited: the client spinner must stop right away.
func (t *TelegramClient) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("telegram answer callback: %w", err)
	}
	return nil
}

func normalizeChannel(chat string) string {
	if strings.HasPrefix(chat, "@") {
		return chat
	}
	return "@" + chat
}
