package cmds

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shawarma-bot/internal/stories/orders"
	"shawarma-bot/internal/telegram/callbacks"
	"shawarma-bot/internal/telegram/messages"
)

func adminCallback(action orders.Action) callbacks.Callback {
	return callbacks.Callback{Kind: callbacks.KindAdmin, Action: action, OrderID: "0b7e4c1a-5f2d-4e8a-9c3b-1d2e3f4a5b6c"}
}

func TestAdminOrdersConfirm(t *testing.T) {
	bot := &MockBotApi{}
	confirmed := testOrder(orders.StatusConfirmed)
	cmd := NewAdminOrdersCommand(bot, &fakeTransitioner{
		result: &orders.TransitionResult{Order: confirmed, From: orders.StatusPending, Changed: true},
	}, discardLogger())

	err := cmd.HandleAction(context.Background(), callbackQuery(1, ""), adminCallback(orders.ActionConfirm))
	require.NoError(t, err)

	require.Len(t, bot.answers, 1)
	assert.Equal(t, messages.StatusLabel(orders.StatusConfirmed), bot.answers[0].Text)
	assert.False(t, bot.answers[0].ShowAlert)

	require.Len(t, bot.edits, 1)
	assert.Equal(t, messages.FormatAdminOrder(confirmed), bot.edits[0].Text)
	require.NotNil(t, bot.edits[0].ReplyMarkup)
	assert.Equal(t, "admin_preparing_"+confirmed.ID, *bot.edits[0].ReplyMarkup.InlineKeyboard[0][0].CallbackData)
}

func TestAdminOrdersErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		current   bool
		wantText  string
		wantEdit  bool
		wantError bool
	}{
		{name: "stale refreshes message", err: orders.ErrStale, current: true, wantText: messages.OrderStale, wantEdit: true},
		{name: "invalid refreshes message", err: orders.ErrInvalidTransition, current: true, wantText: messages.OrderInvalid, wantEdit: true},
		{name: "not found", err: orders.ErrNotFound, wantText: messages.OrderNotFound},
		{name: "storage error", err: errors.New("database is locked"), wantText: messages.Error, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &MockBotApi{}
			ft := &fakeTransitioner{err: tt.err}
			if tt.current {
				ft.current = testOrder(orders.StatusConfirmed)
			}
			cmd := NewAdminOrdersCommand(bot, ft, discardLogger())

			err := cmd.HandleAction(context.Background(), callbackQuery(1, ""), adminCallback(orders.ActionConfirm))
			if tt.wantError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			require.Len(t, bot.answers, 1, "callback is always answered")
			assert.Equal(t, tt.wantText, bot.answers[0].Text)
			assert.True(t, bot.answers[0].ShowAlert)

			if tt.wantEdit {
				require.Len(t, bot.edits, 1)
				assert.Equal(t, messages.FormatAdminOrder(ft.current), bot.edits[0].Text)
			} else {
				assert.Empty(t, bot.edits)
			}
		})
	}
}

func TestAdminOrdersDetails(t *testing.T) {
	bot := &MockBotApi{}
	order := testOrder(orders.StatusPending)
	cmd := NewAdminOrdersCommand(bot, &fakeTransitioner{
		result: &orders.TransitionResult{Order: order, From: orders.StatusPending},
	}, discardLogger())

	err := cmd.HandleAction(context.Background(), callbackQuery(1, ""), adminCallback(orders.ActionDetails))
	require.NoError(t, err)

	require.Len(t, bot.messages, 1)
	assert.Equal(t, messages.FormatOrderDetails(order), bot.messages[0].Text)
	assert.Empty(t, bot.edits)
}

func TestAdminOrdersListPending(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		bot := &MockBotApi{}
		cmd := NewAdminOrdersCommand(bot, &fakeTransitioner{}, discardLogger())

		require.NoError(t, cmd.ListPending(context.Background(), 1))
		require.Len(t, bot.messages, 1)
		assert.Equal(t, messages.NoPendingOrders, bot.messages[0].Text)
	})

	t.Run("one message per order", func(t *testing.T) {
		bot := &MockBotApi{}
		cmd := NewAdminOrdersCommand(bot, &fakeTransitioner{
			pending: []*orders.Order{testOrder(orders.StatusPending), testOrder(orders.StatusPending)},
		}, discardLogger())

		require.NoError(t, cmd.ListPending(context.Background(), 1))
		assert.Len(t, bot.messages, 2)
	})
}
