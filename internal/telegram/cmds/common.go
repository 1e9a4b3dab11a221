package cmds

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// answer отвечает на callback, чтобы у клиента пропал индикатор загрузки
func answer(bot botApi, query *tgbotapi.CallbackQuery, text string) {
	_, _ = bot.Request(tgbotapi.NewCallback(query.ID, text))
}

// answerAlert показывает ответ всплывающим окном
func answerAlert(bot botApi, query *tgbotapi.CallbackQuery, text string) {
	_, _ = bot.Request(tgbotapi.NewCallbackWithAlert(query.ID, text))
}

// editOrSend редактирует сообщение с кнопкой, а если его нет (inline режим), отправляет новое
func editOrSend(bot botApi, query *tgbotapi.CallbackQuery, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID

	if query.Message.MessageID > 0 {
		edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, text)
		edit.ReplyMarkup = keyboard
		_, err := bot.Send(edit)
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	_, err := bot.Send(msg)
	return err
}

func send(bot botApi, chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := bot.Send(msg)
	return err
}
