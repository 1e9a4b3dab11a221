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

type MenuCommand struct {
	bot     botApi
	catalog catalog
	cart    cartStore
	logger  *slog.Logger
}

func NewMenuCommand(bot botApi, catalog catalog, cart cartStore, logger *slog.Logger) *MenuCommand {
	return &MenuCommand{
		bot:     bot,
		catalog: catalog,
		cart:    cart,
		logger:  logger,
	}
}

// ShowMainMenu отправляет приветствие с основной клавиатурой
func (c *MenuCommand) ShowMainMenu(_ context.Context, chatID int64, user *users.User) error {
	return send(c.bot, chatID, messages.Welcome, messages.MainKeyboard(c.cart.Count(user.TelegramID)))
}

func (c *MenuCommand) ShowAbout(_ context.Context, chatID int64) error {
	return send(c.bot, chatID, messages.About, nil)
}

// ShowCategory отправляет список позиций категории новым сообщением
func (c *MenuCommand) ShowCategory(ctx context.Context, chatID int64, category menu.Category) error {
	text, keyboard, err := c.renderCategory(ctx, category)
	if err != nil {
		_ = send(c.bot, chatID, messages.Error, nil)
		return err
	}
	if keyboard == nil {
		return send(c.bot, chatID, text, nil)
	}
	return send(c.bot, chatID, text, *keyboard)
}

// HandleCallback обрабатывает callback-и меню: категория, карточка позиции, главное меню
func (c *MenuCommand) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, cb callbacks.Callback, user *users.User) error {
	switch cb.Kind {
	case callbacks.KindCategory:
		answer(c.bot, query, "")
		text, keyboard, err := c.renderCategory(ctx, cb.Category)
		if err != nil {
			return err
		}
		return editOrSend(c.bot, query, text, keyboard)

	case callbacks.KindItem:
		return c.showItem(ctx, query, cb.ItemID, user)

	case callbacks.KindMainMenu:
		answer(c.bot, query, messages.MainMenu)
		if query.Message == nil {
			return nil
		}
		return c.ShowMainMenu(ctx, query.Message.Chat.ID, user)
	}

	answer(c.bot, query, messages.UnknownCommand)
	return nil
}

func (c *MenuCommand) renderCategory(ctx context.Context, category menu.Category) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	items, err := c.catalog.ListByCategory(ctx, category)
	if err != nil {
		c.logger.Error("Failed to list menu items", "category", category, "error", err)
		return "", nil, fmt.Errorf("list %s: %w", category, err)
	}

	if len(items) == 0 {
		return messages.CategoryEmpty, nil, nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s — %s", item.Name, messages.FormatPrice(item.Price)),
				callbacks.Item(item.ID),
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(messages.ButtonViewCart, callbacks.ViewCart()),
	))
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)

	title := messages.ChooseShawarma
	if category == menu.CategoryDrinks {
		title = messages.ChooseDrinks
	}

	return title, &keyboard, nil
}

func (c *MenuCommand) showItem(ctx context.Context, query *tgbotapi.CallbackQuery, itemID string, user *users.User) error {
	item, err := c.catalog.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			answerAlert(c.bot, query, messages.ItemNotFound)
			return nil
		}
		answer(c.bot, query, messages.Error)
		return err
	}

	answer(c.bot, query, "")
	return editOrSend(c.bot, query, itemCard(item, c.cart.QuantityOf(user.TelegramID, item.ID)), itemKeyboard(item))
}

func itemCard(item *menu.Item, inCart int) string {
	return messages.FormatMenuItem(item.Name, item.Description, item.Price, inCart)
}

func itemKeyboard(item *menu.Item) *tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(messages.ButtonAddToCart, callbacks.AddToCart(item.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(messages.ButtonBack, callbacks.Category(item.Category)),
			tgbotapi.NewInlineKeyboardButtonData(messages.ButtonViewCart, callbacks.ViewCart()),
		),
	)
	return &keyboard
}
