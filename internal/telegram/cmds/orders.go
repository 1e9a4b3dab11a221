package cmds

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"shawarma-bot/internal/stories/orders"
	"shawarma-bot/internal/stories/users"
	"shawarma-bot/internal/telegram/callbacks"
	"shawarma-bot/internal/telegram/messages"
)

const (
	profileOrdersLimit = 5
	myOrdersLimit      = 10
)

type OrdersCommand struct {
	bot      botApi
	orders   orderService
	notifier newOrderNotifier
	logger   *slog.Logger
}

func NewOrdersCommand(bot botApi, orders orderService, notifier newOrderNotifier, logger *slog.Logger) *OrdersCommand {
	return &OrdersCommand{
		bot:      bot,
		orders:   orders,
		notifier: notifier,
		logger:   logger,
	}
}

func (c *OrdersCommand) ShowProfile(ctx context.Context, chatID int64, user *users.User) error {
	recent, err := c.orders.ListUserOrders(ctx, user.TelegramID, profileOrdersLimit)
	if err != nil {
		_ = send(c.bot, chatID, messages.Error, nil)
		return err
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(messages.ButtonMyOrders, callbacks.MyOrders()),
	))
	return send(c.bot, chatID, messages.FormatProfile(user.DisplayName(), user.TelegramID, user.CreatedAt, recent), keyboard)
}

func (c *OrdersCommand) ShowOrders(ctx context.Context, chatID int64, user *users.User) error {
	list, err := c.orders.ListUserOrders(ctx, user.TelegramID, myOrdersLimit)
	if err != nil {
		_ = send(c.bot, chatID, messages.Error, nil)
		return err
	}
	if len(list) == 0 {
		return send(c.bot, chatID, messages.OrdersEmpty, nil)
	}

	for _, o := range list {
		if err := send(c.bot, chatID, messages.FormatCustomerStatus(o), nil); err != nil {
			return err
		}
	}
	return nil
}

// HandleCallback обрабатывает оформление заказа и просмотр своих заказов
func (c *OrdersCommand) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, cb callbacks.Callback, user *users.User) error {
	switch cb.Kind {
	case callbacks.KindCheckout:
		return c.checkout(ctx, query, user)
	case callbacks.KindMyOrders:
		answer(c.bot, query, "")
		if query.Message == nil {
			return nil
		}
		return c.ShowOrders(ctx, query.Message.Chat.ID, user)
	}

	answer(c.bot, query, messages.UnknownCommand)
	return nil
}

func (c *OrdersCommand) checkout(ctx context.Context, query *tgbotapi.CallbackQuery, user *users.User) error {
	order, err := c.orders.Checkout(ctx, orders.Customer{
		UserID: user.TelegramID,
		Name:   user.DisplayName(),
	})
	if err != nil {
		if errors.Is(err, orders.ErrEmptyCart) {
			answerAlert(c.bot, query, messages.CheckoutEmpty)
			return nil
		}
		answerAlert(c.bot, query, messages.Error)
		return err
	}

	answer(c.bot, query, messages.Done)
	if err := editOrSend(c.bot, query, messages.FormatOrderPlaced(order), nil); err != nil {
		c.logger.Warn("Failed to show order confirmation", "order_id", order.ID, "error", err)
	}

	report := c.notifier.NotifyNewOrder(ctx, order)
	c.logger.Info("New order broadcast",
		"order_id", order.ID,
		"sent", report.Sent(),
		"failed", report.Failed())

	return nil
}
