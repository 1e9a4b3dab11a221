package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shawarma-bot/internal/stories/orders"
)

type sent struct {
	chatID  int64
	channel string
	text    string
	markup  interface{}
}

type mockSender struct {
	mu     sync.Mutex
	fail   map[int64]error
	nextID int
	sent   []sent
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	if err := m.fail[msg.ChatID]; err != nil {
		return tgbotapi.Message{}, err
	}

	m.nextID++
	m.sent = append(m.sent, sent{chatID: msg.ChatID, channel: msg.ChannelUsername, text: msg.Text, markup: msg.ReplyMarkup})
	return tgbotapi.Message{MessageID: m.nextID}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrder() *orders.Order {
	return &orders.Order{
		ID:           "0b7e4c1a-5f2d-4e8a-9c3b-1d2e3f4a5b6c",
		UserID:       42,
		CustomerName: "@ivan",
		Status:       orders.StatusPending,
		CreatedAt:    time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		Items: []orders.Item{
			{ItemID: "shawarma_beef", Name: "Шаурма с говядиной", Quantity: 2, UnitPrice: decimal.NewFromInt(350)},
			{ItemID: "tea", Name: "Чай", Quantity: 1, UnitPrice: decimal.RequireFromString("70.50")},
		},
	}
}

func TestNotifyPartialFailure(t *testing.T) {
	sender := &mockSender{fail: map[int64]error{2: errors.New("Forbidden: bot was blocked by the user")}}
	target, err := NewTarget("", []int64{1, 2, 3})
	require.NoError(t, err)

	f, err := New(sender, target, discardLogger())
	require.NoError(t, err)

	report := f.NotifyNewOrder(context.Background(), testOrder())

	assert.Equal(t, 2, report.Sent())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, []Recipient{{ChatID: 2}}, report.FailedRecipients())
	require.Len(t, report.Results, 3)
	assert.Equal(t, 1, report.Results[0].MessageID)
	assert.Error(t, report.Results[1].Err)
	assert.Equal(t, 2, report.Results[2].MessageID)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, int64(1), sender.sent[0].chatID)
	assert.Equal(t, int64(3), sender.sent[1].chatID)
	assert.IsType(t, tgbotapi.InlineKeyboardMarkup{}, sender.sent[0].markup)
}

func TestNotifyChannelFirst(t *testing.T) {
	sender := &mockSender{}
	target, err := NewTarget("@shawarma_orders", []int64{1})
	require.NoError(t, err)

	f, err := New(sender, target, discardLogger())
	require.NoError(t, err)

	report := f.Notify(context.Background(), Message{Kind: "test", Text: "hello"})
	assert.Equal(t, 2, report.Sent())

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "@shawarma_orders", sender.sent[0].channel)
	assert.Equal(t, int64(1), sender.sent[1].chatID)
	assert.Nil(t, sender.sent[0].markup)
}

func TestNotifyCancelledContext(t *testing.T) {
	sender := &mockSender{}
	target, err := NewTarget("", []int64{1, 2})
	require.NoError(t, err)

	f, err := New(sender, target, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := f.Notify(ctx, Message{Kind: "test", Text: "hello"})
	assert.Equal(t, 0, report.Sent())
	assert.Equal(t, 2, report.Failed())
	assert.Empty(t, sender.sent)
}

func TestNotifyRecipientsRetry(t *testing.T) {
	sender := &mockSender{fail: map[int64]error{2: errors.New("timeout")}}
	target, err := NewTarget("", []int64{1, 2})
	require.NoError(t, err)

	f, err := New(sender, target, discardLogger())
	require.NoError(t, err)

	msg := NewOrderMessage(testOrder())
	report := f.Notify(context.Background(), msg)
	require.Equal(t, 1, report.Failed())

	delete(sender.fail, 2)
	retry := f.NotifyRecipients(context.Background(), msg, report.FailedRecipients())
	assert.Equal(t, 1, retry.Sent())
	assert.Equal(t, int64(2), sender.sent[len(sender.sent)-1].chatID)
}

func TestNewRequiresRecipients(t *testing.T) {
	_, err := New(&mockSender{}, Target{}, discardLogger())
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewOrderMessageDeterministic(t *testing.T) {
	a := NewOrderMessage(testOrder())
	b := NewOrderMessage(testOrder())
	assert.Equal(t, a, b)

	want := "🚨 Новый заказ #0b7e4c1a\n\n" +
		"👤 Клиент: @ivan\n" +
		"🕐 Время: 01.05.2024 12:30\n\n" +
		"• Шаурма с говядиной × 2 = 700 ₽\n" +
		"• Чай × 1 = 70.50 ₽\n" +
		"\n💰 Итого: 770.50 ₽\n" +
		"📌 Статус: ⏳ Ожидает подтверждения"
	assert.Equal(t, want, a.Text)
	assert.Equal(t, "new_order", a.Kind)

	require.NotNil(t, a.Keyboard)
	require.Len(t, a.Keyboard.InlineKeyboard, 2)
	actions := a.Keyboard.InlineKeyboard[0]
	require.Len(t, actions, 2)
	assert.Equal(t, "admin_confirm_0b7e4c1a-5f2d-4e8a-9c3b-1d2e3f4a5b6c", *actions[0].CallbackData)
	assert.Equal(t, "admin_reject_0b7e4c1a-5f2d-4e8a-9c3b-1d2e3f4a5b6c", *actions[1].CallbackData)
	assert.Equal(t, "admin_details_0b7e4c1a-5f2d-4e8a-9c3b-1d2e3f4a5b6c", *a.Keyboard.InlineKeyboard[1][0].CallbackData)
}

func TestNotifyStatusChange(t *testing.T) {
	order := testOrder()
	order.Status = orders.StatusConfirmed

	t.Run("customer and channel", func(t *testing.T) {
		sender := &mockSender{}
		target, err := NewTarget("-100500", []int64{1})
		require.NoError(t, err)
		f, err := New(sender, target, discardLogger())
		require.NoError(t, err)

		require.NoError(t, f.NotifyStatusChange(context.Background(), order))
		require.Len(t, sender.sent, 2)
		assert.Equal(t, int64(42), sender.sent[0].chatID)
		assert.Equal(t, "📦 Заказ #0b7e4c1a: ✅ Подтвержден", sender.sent[0].text)
		assert.Equal(t, int64(-100500), sender.sent[1].chatID)
		assert.Equal(t, "📌 #0b7e4c1a → ✅ Подтвержден", sender.sent[1].text)
	})

	t.Run("customer blocked the bot", func(t *testing.T) {
		sender := &mockSender{fail: map[int64]error{42: errors.New("Forbidden")}}
		target, err := NewTarget("", []int64{1})
		require.NoError(t, err)
		f, err := New(sender, target, discardLogger())
		require.NoError(t, err)

		require.Error(t, f.NotifyStatusChange(context.Background(), order))
		assert.Empty(t, sender.sent, "no channel configured, admins are not notified on status change")
	})
}

func TestNotifyReminder(t *testing.T) {
	sender := &mockSender{}
	target, err := NewTarget("", []int64{1})
	require.NoError(t, err)
	f, err := New(sender, target, discardLogger())
	require.NoError(t, err)

	report := f.NotifyReminder(context.Background(), testOrder(), 22*time.Minute)
	require.Equal(t, 1, report.Sent())
	assert.Contains(t, sender.sent[0].text, "⏰ Заказ ждет подтверждения 22 минуты")
}
