package cmds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"shawarma-bot/internal/stories/menu"
	"shawarma-bot/internal/stories/users"
	"shawarma-bot/internal/telegram/callbacks"
	"shawarma-bot/internal/telegram/messages"
)

type CartCommand struct {
	bot     botApi
	catalog catalog
	cart    cartStore
	logger  *slog.Logger
}

func NewCartCommand(bot botApi, catalog catalog, cart cartStore, logger *slog.Logger) *CartCommand {
	return &CartCommand{
		bot:     bot,
		catalog: catalog,
		cart:    cart,
		logger:  logger,
	}
}

// Show отправляет содержимое корзины новым сообщением
func (c *CartCommand) Show(ctx context.Context, chatID int64, user *users.User) error {
	text, keyboard, err := c.render(ctx, user.TelegramID)
	if err != nil {
		_ = send(c.bot, chatID, messages.Error, nil)
		return err
	}
	if keyboard == nil {
		return send(c.bot, chatID, text, nil)
	}
	return send(c.bot, chatID, text, *keyboard)
}

// HandleCallback обрабатывает кнопки корзины
func (c *CartCommand) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, cb callbacks.Callback, user *users.User) error {
	userID := user.TelegramID

	switch cb.Kind {
	case callbacks.KindAddToCart:
		item, err := c.catalog.GetItem(ctx, cb.ItemID)
		if err != nil {
			if errors.Is(err, menu.ErrItemNotFound) {
				answerAlert(c.bot, query, messages.ItemNotFound)
				return nil
			}
			answer(c.bot, query, messages.Error)
			return err
		}
		qty := c.cart.Add(userID, item.ID, 1)
		answer(c.bot, query, fmt.Sprintf("%s (%d)", messages.AddedToCart, qty))
		return editOrSend(c.bot, query, itemCard(item, qty), itemKeyboard(item))

	case callbacks.KindViewCart:
		answer(c.bot, query, "")
		if query.Message == nil {
			return nil
		}
		return c.Show(ctx, query.Message.Chat.ID, user)

	case callbacks.KindCartIncrease:
		c.cart.Increase(userID, cb.ItemID)
		answer(c.bot, query, "")

	case callbacks.KindCartDecrease:
		if c.cart.Decrease(userID, cb.ItemID) == 0 {
			answer(c.bot, query, messages.RemovedFromCart)
		} else {
			answer(c.bot, query, "")
		}

	case callbacks.KindCartRemove:
		c.cart.Remove(userID, cb.ItemID)
		answer(c.bot, query, messages.RemovedFromCart)

	case callbacks.KindCartClear:
		c.cart.Clear(userID)
		answer(c.bot, query, messages.CartCleared)
		return editOrSend(c.bot, query, messages.CartCleared, nil)

	default:
		answer(c.bot, query, messages.UnknownCommand)
		return nil
	}

	return c.refresh(ctx, query, userID)
}

func (c *CartCommand) refresh(ctx context.Context, query *tgbotapi.CallbackQuery, userID int64) error {
	text, keyboard, err := c.render(ctx, userID)
	if err != nil {
		return err
	}
	return editOrSend(c.bot, query, text, keyboard)
}

func (c *CartCommand) render(ctx context.Context, userID int64) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	entries := c.cart.Items(userID)
	if len(entries) == 0 {
		return messages.CartEmpty, nil, nil
	}

	lines := make([]messages.CartLine, 0, len(entries))
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, e := range entries {
		item, err := c.catalog.GetItem(ctx, e.ItemID)
		if err != nil {
			// Позицию убрали из меню, чистим ее из корзины
			if errors.Is(err, menu.ErrItemNotFound) {
				c.cart.Remove(userID, e.ItemID)
				continue
			}
			return "", nil, fmt.Errorf("get item %s: %w", e.ItemID, err)
		}

		lines = append(lines, messages.CartLine{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  e.Quantity,
			UnitPrice: item.Price,
		})
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", callbacks.CartDecrease(item.ID)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s × %d", item.Name, e.Quantity), callbacks.Item(item.ID)),
			tgbotapi.NewInlineKeyboardButtonData("➕", callbacks.CartIncrease(item.ID)),
			tgbotapi.NewInlineKeyboardButtonData("❌", callbacks.CartRemove(item.ID)),
		))
	}

	if len(lines) == 0 {
		return messages.CartEmpty, nil, nil
	}

	total, err := c.cart.Total(ctx, userID)
	if err != nil {
		c.logger.Error("Failed to calculate cart total", "user_id", userID, "error", err)
		return "", nil, fmt.Errorf("cart total: %w", err)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(messages.ButtonClearCart, callbacks.CartClear()),
		tgbotapi.NewInlineKeyboardButtonData(messages.ButtonCheckout, callbacks.Checkout()),
	))
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)

	return messages.FormatCart(lines, total), &keyboard, nil
}
