package messages

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"shawarma-bot/internal/stories/orders"
	"shawarma-bot/internal/telegram/callbacks"
)

// MainKeyboard is the persistent reply keyboard. The cart label carries the item count,
// which is why the router matches it by prefix.
func MainKeyboard(cartCount int) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonShawarma),
			tgbotapi.NewKeyboardButton(ButtonDrinks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(CartButtonLabel(cartCount)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonProfile),
			tgbotapi.NewKeyboardButton(ButtonAbout),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func actionButton(action orders.Action) string {
	switch action {
	case orders.ActionConfirm:
		return ButtonConfirm
	case orders.ActionReject:
		return ButtonReject
	case orders.ActionPreparing:
		return ButtonPreparing
	case orders.ActionReady:
		return ButtonReady
	default:
		return ButtonDetails
	}
}

// AdminOrderKeyboard lists the actions allowed from the order's current status,
// followed by the details button.
func AdminOrderKeyboard(order *orders.Order) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var actionRow []tgbotapi.InlineKeyboardButton
	for _, a := range orders.AllowedActions(order.Status) {
		actionRow = append(actionRow, tgbotapi.NewInlineKeyboardButtonData(actionButton(a), callbacks.Admin(a, order.ID)))
	}
	if len(actionRow) > 0 {
		rows = append(rows, actionRow)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(ButtonDetails, callbacks.Admin(orders.ActionDetails, order.ID)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
