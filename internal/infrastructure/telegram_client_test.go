package infrastructure

import (
	"context"
	"errors"
	"testing"

	"contact_relay/internal/entities"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent      []tgbotapi.Chattable
	requested []tgbotapi.Chattable
	err       error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requested = append(f.requested, c)
	return &tgbotapi.APIResponse{Ok: f.err == nil}, f.err
}

func TestSendHTMLNumericChat(t *testing.T) {
	bot := &fakeBot{}
	client := NewTelegramClient(bot, NewSendLimiter(0, 0))

	kb := entities.Keyboard{{{Text: "Done", Data: "processed:1"}}}
	require.NoError(t, client.SendHTML(context.Background(), "-100123", "<b>hi</b>", kb))

	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100123), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.NotNil(t, msg.ReplyMarkup)
}

func TestSendHTMLChannelName(t *testing.T) {
	bot := &fakeBot{}
	client := NewTelegramClient(bot, nil)

	require.NoError(t, client.SendHTML(context.Background(), "leads_channel", "hi", nil))

	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, "@leads_channel", msg.ChannelUsername)
	assert.Nil(t, msg.ReplyMarkup)
}

func TestSendHTMLError(t *testing.T) {
	bot := &fakeBot{err: errors.New("Bad Request: chat not found")}
	client := NewTelegramClient(bot, nil)

	err := client.SendHTML(context.Background(), "1", "hi", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestEditTextDropsKeyboardWhenNil(t *testing.T) {
	bot := &fakeBot{}
	client := NewTelegramClient(bot, nil)
	ref := entities.MessageRef{ChatID: 5, MessageID: 10}

	require.NoError(t, client.EditText(context.Background(), ref, "text", nil))

	edit := bot.sent[0].(tgbotapi.EditMessageTextConfig)
	assert.Equal(t, int64(5), edit.ChatID)
	assert.Equal(t, 10, edit.MessageID)
	assert.Nil(t, edit.ReplyMarkup)
	assert.Equal(t, tgbotapi.ModeHTML, edit.ParseMode)
}

func TestEditKeyboardRemove(t *testing.T) {
	bot := &fakeBot{}
	client := NewTelegramClient(bot, nil)

	require.NoError(t, client.EditKeyboard(context.Background(), entities.MessageRef{ChatID: 1, MessageID: 2}, nil))

	edit := bot.sent[0].(tgbotapi.EditMessageReplyMarkupConfig)
	require.NotNil(t, edit.ReplyMarkup)
	assert.Empty(t, edit.ReplyMarkup.InlineKeyboard)
}

func TestAnswerCallback(t *testing.T) {
	bot := &fakeBot{}
	client := NewTelegramClient(bot, nil)

	require.NoError(t, client.AnswerCallback(context.Background(), "cb-1", ""))
	require.Len(t, bot.requested, 1)
	cb := bot.requested[0].(tgbotapi.CallbackConfig)
	assert.Equal(t, "cb-1", cb.CallbackQueryID)
}

func TestSendLimiterHonoursContext(t *testing.T) {
	l := NewSendLimiter(0.001, 1)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.Wait(ctx))
}
