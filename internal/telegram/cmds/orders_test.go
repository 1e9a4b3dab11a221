package cmds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shawarma-bot/internal/stories/orders"
	"shawarma-bot/internal/stories/users"
	"shawarma-bot/internal/telegram/callbacks"
	"shawarma-bot/internal/telegram/messages"
)

func TestOrdersCheckout(t *testing.T) {
	bot := &MockBotApi{}
	order := testOrder(orders.StatusPending)
	fanout := &fakeNewOrderNotifier{}
	cmd := NewOrdersCommand(bot, &fakeOrderService{order: order}, fanout, discardLogger())

	cb := callbacks.Callback{Kind: callbacks.KindCheckout}
	require.NoError(t, cmd.HandleCallback(context.Background(), callbackQuery(42, "checkout"), cb, &users.User{TelegramID: 42}))

	assert.Equal(t, 1, fanout.calls)
	require.Len(t, bot.edits, 1)
	assert.Equal(t, messages.FormatOrderPlaced(order), bot.edits[0].Text)
}

func TestOrdersCheckoutEmptyCart(t *testing.T) {
	bot := &MockBotApi{}
	fanout := &fakeNewOrderNotifier{}
	cmd := NewOrdersCommand(bot, &fakeOrderService{err: orders.ErrEmptyCart}, fanout, discardLogger())

	cb := callbacks.Callback{Kind: callbacks.KindCheckout}
	require.NoError(t, cmd.HandleCallback(context.Background(), callbackQuery(42, "checkout"), cb, &users.User{TelegramID: 42}))

	assert.Zero(t, fanout.calls)
	require.Len(t, bot.answers, 1)
	assert.Equal(t, messages.CheckoutEmpty, bot.answers[0].Text)
	assert.Empty(t, bot.edits)
}

func TestOrdersShowOrders(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		bot := &MockBotApi{}
		cmd := NewOrdersCommand(bot, &fakeOrderService{}, &fakeNewOrderNotifier{}, discardLogger())

		require.NoError(t, cmd.ShowOrders(context.Background(), 42, &users.User{TelegramID: 42}))
		require.Len(t, bot.messages, 1)
		assert.Equal(t, messages.OrdersEmpty, bot.messages[0].Text)
	})

	t.Run("orders", func(t *testing.T) {
		bot := &MockBotApi{}
		recent := []*orders.Order{testOrder(orders.StatusReady)}
		cmd := NewOrdersCommand(bot, &fakeOrderService{recent: recent}, &fakeNewOrderNotifier{}, discardLogger())

		require.NoError(t, cmd.ShowOrders(context.Background(), 42, &users.User{TelegramID: 42}))
		require.Len(t, bot.messages, 1)
		assert.Equal(t, messages.FormatCustomerStatus(recent[0]), bot.messages[0].Text)
	})
}
