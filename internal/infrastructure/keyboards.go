package infrastructure

import (
	"contact_relay/internal/entities"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// toMarkup converts a domain keyboard into Telegram's inline markup.
// nil stays nil so that an edit drops the buttons.
func toMarkup(kb entities.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if kb == nil {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, r := range kb {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			if b.URL != "" {
				row = append(row, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
		}
		rows = append(rows, row)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

// emptyMarkup is what editMessageReplyMarkup needs to remove every button.
func emptyMarkup() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
}

// fromMarkup converts the markup attached to an incoming message.
func fromMarkup(markup *tgbotapi.InlineKeyboardMarkup) entities.Keyboard {
	if markup == nil || len(markup.InlineKeyboard) == 0 {
		return nil
	}
	kb := make(entities.Keyboard, 0, len(markup.InlineKeyboard))
	for _, r := range markup.InlineKeyboard {
		row := make([]entities.Button, 0, len(r))
		for _, b := range r {
			btn := entities.Button{Text: b.Text}
			if b.URL != nil {
				btn.URL = *b.URL
			}
			if b.CallbackData != nil {
				btn.Data = *b.CallbackData
			}
			row = append(row, btn)
		}
		kb = append(kb, row)
	}
	return kb
}
