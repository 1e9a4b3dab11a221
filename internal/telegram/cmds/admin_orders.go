package cmds

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"shawarma-bot/internal/stories/orders"
	"shawarma-bot/internal/telegram/callbacks"
	"shawarma-bot/internal/telegram/messages"
)

// AdminOrdersCommand обрабатывает кнопки администратора под уведомлениями о заказах
type AdminOrdersCommand struct {
	bot    botApi
	orders orderTransitioner
	logger *slog.Logger
}

func NewAdminOrdersCommand(bot botApi, orders orderTransitioner, logger *slog.Logger) *AdminOrdersCommand {
	return &AdminOrdersCommand{
		bot:    bot,
		orders: orders,
		logger: logger,
	}
}

// HandleAction применяет действие администратора. Права проверяет роутер.
func (c *AdminOrdersCommand) HandleAction(ctx context.Context, query *tgbotapi.CallbackQuery, cb callbacks.Callback) error {
	res, err := c.orders.Transition(ctx, cb.OrderID, cb.Action)
	if err != nil {
		return c.handleError(ctx, query, cb, err)
	}

	if cb.Action == orders.ActionDetails {
		answer(c.bot, query, "")
		if query.Message == nil {
			return nil
		}
		return send(c.bot, query.Message.Chat.ID, messages.FormatOrderDetails(res.Order), nil)
	}

	c.logger.Info("Admin changed order status",
		"order_id", res.Order.ID,
		"admin_id", query.From.ID,
		"from", res.From,
		"to", res.Order.Status)

	answer(c.bot, query, messages.StatusLabel(res.Order.Status))
	return c.refresh(query, res.Order)
}

func (c *AdminOrdersCommand) handleError(ctx context.Context, query *tgbotapi.CallbackQuery, cb callbacks.Callback, err error) error {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		answerAlert(c.bot, query, messages.OrderNotFound)
		return nil

	case errors.Is(err, orders.ErrStale):
		answerAlert(c.bot, query, messages.OrderStale)
		c.logger.Info("Stale admin action",
			"order_id", cb.OrderID,
			"action", cb.Action,
			"admin_id", query.From.ID)

	case errors.Is(err, orders.ErrInvalidTransition):
		answerAlert(c.bot, query, messages.OrderInvalid)

	default:
		answerAlert(c.bot, query, messages.Error)
		return err
	}

	// Показываем актуальный статус и кнопки, чтобы админ не нажимал устаревшие
	current, getErr := c.orders.Get(ctx, cb.OrderID)
	if getErr != nil {
		return nil
	}
	if err := c.refresh(query, current); err != nil {
		c.logger.Warn("Failed to refresh admin order message", "order_id", cb.OrderID, "error", err)
	}
	return nil
}

func (c *AdminOrdersCommand) refresh(query *tgbotapi.CallbackQuery, order *orders.Order) error {
	keyboard := messages.AdminOrderKeyboard(order)
	return editOrSend(c.bot, query, messages.FormatAdminOrder(order), &keyboard)
}

// ListPending отправляет администратору все заказы, ожидающие подтверждения
func (c *AdminOrdersCommand) ListPending(ctx context.Context, chatID int64) error {
	pending, err := c.orders.ListStalePending(ctx, 0)
	if err != nil {
		_ = send(c.bot, chatID, messages.Error, nil)
		return err
	}
	if len(pending) == 0 {
		return send(c.bot, chatID, messages.NoPendingOrders, nil)
	}

	for _, o := range pending {
		if err := send(c.bot, chatID, messages.FormatAdminOrder(o), messages.AdminOrderKeyboard(o)); err != nil {
			return err
		}
	}
	return nil
}
